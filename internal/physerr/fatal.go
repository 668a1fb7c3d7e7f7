// Package physerr classifies the one class of error the engine can
// raise: a programmer-detectable invariant violation. The engine never
// returns an error value across its public boundary in steady state; a
// Fatal error means the caller should log it and abort the process.
package physerr

import "github.com/pkg/errors"

type fatalError struct {
	cause error
}

func (f *fatalError) Error() string { return f.cause.Error() }
func (f *fatalError) Cause() error  { return f.cause }
func (f *fatalError) Unwrap() error { return f.cause }

// Fatal wraps msg as a fatal invariant-violation error.
func Fatal(msg string) error {
	return &fatalError{cause: errors.New(msg)}
}

// Fatalf formats according to the given format specifier and wraps the
// result as a fatal invariant-violation error.
func Fatalf(format string, args ...any) error {
	return &fatalError{cause: errors.Errorf(format, args...)}
}

// IsFatal reports whether err (or anything it wraps) is a Fatal error.
func IsFatal(err error) bool {
	var f *fatalError
	return errors.As(err, &f)
}
