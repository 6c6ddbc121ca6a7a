// Package errs holds the error taxonomy AllReduce's callers see:
// ConfigurationError, CapabilityError, and LaunchError. Generalized
// from KungFu's srcs/go/utils/errors.go (MergeErrors, Pluralize), but
// returns wrapped errors instead of calling ExitErr/os.Exit — this is
// a library, and a caller's bad configuration must not kill its
// process.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError covers rejections at the dispatcher entry point:
// out-of-range world size or rank, peer state/buffer slices of the
// wrong length, oversized payload, HCM requested at worldSize != 8 or
// without a topology row, and algo=None. The collective is never
// launched.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// CapabilityError reports an architecture that lacks the required
// packed-bf16/atomic encodings. AllReduce does not return it: the
// software model runs everywhere and IsSupported is always true.
type CapabilityError struct {
	Reason string
}

func (e *CapabilityError) Error() string { return "capability error: " + e.Reason }

// LaunchError wraps a kernel-launch failure reported at the launch
// site; Err is the underlying runtime failure, if any.
type LaunchError struct {
	Reason string
	Err    error
}

func (e *LaunchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("launch error: %s: %v", e.Reason, e.Err)
	}
	return "launch error: " + e.Reason
}

func (e *LaunchError) Unwrap() error { return e.Err }

func Configuration(format string, v ...interface{}) error {
	return errors.WithStack(&ConfigurationError{Reason: fmt.Sprintf(format, v...)})
}

func Capability(format string, v ...interface{}) error {
	return errors.WithStack(&CapabilityError{Reason: fmt.Sprintf(format, v...)})
}

func Launch(err error, format string, v ...interface{}) error {
	return errors.WithStack(&LaunchError{Reason: fmt.Sprintf(format, v...), Err: err})
}

// MergeErrors combines the non-nil errors in errs into one, or returns
// nil if none failed.
func MergeErrors(errList []error, hint string) error {
	var msg string
	var failed int
	for _, e := range errList {
		if e != nil {
			failed++
			if len(msg) > 0 {
				msg += ", "
			}
			msg += e.Error()
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%s failed with %s: %s", hint, Pluralize(failed, "error", "errors"), msg)
}

func Pluralize(n int, singular, plural string) string {
	word := singular
	if n > 1 {
		word = plural
	}
	return fmt.Sprintf("%d %s", n, word)
}
