package core

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is raised when the abstract transport-evaluation
// capability is invoked without a concrete integrator behind it. This
// signals a contract violation by the integrator author, not a runtime
// condition.
var ErrNotImplemented = errors.New("transport evaluation is not implemented")

// ConfigurationError reports an invalid configuration detected before
// any rendering work starts.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

// ConfigErrorf creates a ConfigurationError with a formatted message
func ConfigErrorf(format string, args ...any) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// InternalError reports an internal-consistency violation that should
// never occur in correct operation. It aborts the render job.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string { return e.msg }

// InternalErrorf creates an InternalError with a formatted message
func InternalErrorf(format string, args ...any) error {
	return &InternalError{msg: fmt.Sprintf(format, args...)}
}

// IsInternalError reports whether err is an InternalError
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
