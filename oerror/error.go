package oerror

import "fmt"

// VerdictError is the error type returned at the edges of the module, such as when loading map files
// or submitting work to a closed pool.
type VerdictError struct {
	Err string
}

// New returns a *VerdictError with a message formatted from the arguments passed.
func New(format string, args ...any) *VerdictError {
	return &VerdictError{Err: fmt.Sprintf(format, args...)}
}

func (e *VerdictError) Error() string {
	return e.Err
}
