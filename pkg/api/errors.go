package api

import "fmt"

// InvalidArgumentError is returned when a caller passes something malformed:
// an unknown kind or attribute, an empty filter, an unparseable id. Nothing is
// mutated when this is returned.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Msg)
}

func InvalidArgument(format string, a ...interface{}) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, a...)}
}
