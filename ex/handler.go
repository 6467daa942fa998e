package ex

type Handler interface {
	NewError(err error)
}

type FuncHandler func(err error)

func (h FuncHandler) NewError(err error) {
	h(err)
}

// JoinError accumulates errors; the zero value is ready to use.
type JoinError struct {
	e error
}

func (j *JoinError) NewError(err error) {
	j.e = Errors(j.e, err)
}

// Err returns nil when nothing was recorded.
func (j *JoinError) Err() error {
	return j.e
}

func (j *JoinError) Error() string {
	if j.e == nil {
		return ""
	}
	return j.e.Error()
}
