// Package errs defines the error kinds shared across the codec packages.
// The root package re-exports them for callers.
package errs

import "errors"

var (
	// ErrNoValue reports that the top-level production matched nothing.
	ErrNoValue = errors.New("no value available for parsing")

	// ErrNumericRange reports a parsed number whose magnitude exceeds the
	// representable range of the requested scalar type.
	ErrNumericRange = errors.New("numeric value out of range")

	// ErrShapeMismatch reports a parsed value whose shape cannot be mapped
	// onto the target (array where a scalar or object was expected, and
	// vice versa).
	ErrShapeMismatch = errors.New("parsed value shape does not match target")

	// ErrUnsupportedType reports a target type introspection cannot describe.
	ErrUnsupportedType = errors.New("unsupported target type")
)
