package sysmetrics

// Usage is a capacity split into what is free for use and what is taken.
type Usage struct {
	Total     uint64
	Available uint64
	Used      uint64
}

func MemoryUsage(total, available uint64) Usage {
	return Usage{Total: total, Available: available, Used: sub(total, available)}
}

func SwapUsage(total, used uint64) Usage {
	return Usage{Total: total, Available: sub(total, used), Used: used}
}

// Rate is Used as a share of Total, or the integer 0 when Total is 0.
func (u Usage) Rate() any {
	return rate(u.Used, u.Total)
}

func (u Usage) section() Section {
	return Section{
		FieldTotal:     FormatBytes(u.Total),
		FieldAvailable: FormatBytes(u.Available),
		FieldUsed:      FormatBytes(u.Used),
		FieldUsageRate: u.Rate(),
	}
}

func memorySection(stat MemoryStat) Section {
	return MemoryUsage(stat.Total, stat.Available).section()
}

func swapSection(stat SwapStat) Section {
	u := SwapUsage(stat.Total, stat.Used)
	section := u.section()
	if u.Used == 0 {
		section[FieldUsageRate] = 0
	}
	return section
}
