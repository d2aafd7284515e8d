package catalog

import "fmt"

// TransportError is returned when the upstream sheet could not be read (network, auth, quota).
type TransportError struct {
	Range string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("read sheet range %q: %v", e.Range, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
