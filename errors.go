package jsonx

import "github.com/polyglotsoft/jsonx/internal/errs"

// Error kinds reported by the entry points. Match with errors.Is.
var (
	// ErrNoValue reports that the top-level production matched nothing.
	ErrNoValue = errs.ErrNoValue
	// ErrNumericRange reports a scalar whose magnitude exceeds the
	// requested integer width.
	ErrNumericRange = errs.ErrNumericRange
	// ErrShapeMismatch reports a value of the wrong grammar kind for the
	// requested target (array into scalar field, fraction into integer).
	ErrShapeMismatch = errs.ErrShapeMismatch
	// ErrUnsupportedType reports a value whose type cannot be serialized
	// or populated.
	ErrUnsupportedType = errs.ErrUnsupportedType
)
