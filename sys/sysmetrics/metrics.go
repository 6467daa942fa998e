package sysmetrics

import (
	"time"
)

const (
	KeySys    = "sys"
	KeyCPU    = "cpu"
	KeyMemory = "memory"
	KeySwap   = "swap"
	KeyDisk   = "disk"
	KeyTime   = "time"
)

const (
	FieldOS         = "os"
	FieldDay        = "day"
	FieldIP         = "ip"
	FieldName       = "name"
	FieldPackage    = "package"
	FieldCore       = "core"
	FieldCoreNumber = "coreNumber"
	FieldLogic      = "logic"
	FieldUsed       = "used"
	FieldIdle       = "idle"
	FieldDegraded   = "degraded"
	FieldTotal      = "total"
	FieldAvailable  = "available"
	FieldUsageRate  = "usageRate"
)

// Section is one flat group of display values. Values are strings except for
// the explicit integer zero rates, coreNumber and the degraded flag.
type Section map[string]any

// Snapshot is the result of one collection. It is never modified after
// Collect returns it.
type Snapshot struct {
	Sys    Section `json:"sys"`
	CPU    Section `json:"cpu"`
	Memory Section `json:"memory"`
	Swap   Section `json:"swap"`
	Disk   Section `json:"disk"`
	Time   string  `json:"time"`

	// Errors maps a section key to the reason it is empty or incomplete.
	Errors map[string]string `json:"errors,omitempty"`

	CollectedAt time.Time     `json:"-"`
	Took        time.Duration `json:"-"`
}

func (s *Snapshot) Section(key string) Section {
	switch key {
	case KeySys:
		return s.Sys
	case KeyCPU:
		return s.CPU
	case KeyMemory:
		return s.Memory
	case KeySwap:
		return s.Swap
	case KeyDisk:
		return s.Disk
	}
	return nil
}

func (s *Snapshot) setSection(key string, section Section) {
	switch key {
	case KeySys:
		s.Sys = section
	case KeyCPU:
		s.CPU = section
	case KeyMemory:
		s.Memory = section
	case KeySwap:
		s.Swap = section
	case KeyDisk:
		s.Disk = section
	}
}

// Degraded reports whether any section failed or came back incomplete.
func (s *Snapshot) Degraded() bool {
	return len(s.Errors) != 0
}
