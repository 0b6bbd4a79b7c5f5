// Package jsonx is a self-contained JSON codec. It serializes in-memory
// values to JSON text and parses JSON text back into either a generic value
// tree (nil, bool, int64, float64, string, []interface{},
// map[string]interface{}) or a statically-shaped struct via cached field
// introspection.
//
// Numbers are reconstructed arithmetically from the digit runs rather than
// re-parsed textually, so exponents with hundreds of digits resolve to a
// finite overflow (±Inf or a signed zero) instead of failing. Strings keep
// unpaired \uXXXX surrogates as their raw three-byte form, and the writer
// copies such bytes back verbatim, so escape-level content round-trips.
package jsonx

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/polyglotsoft/jsonx/marshal"
	"github.com/polyglotsoft/jsonx/parse"
	"github.com/polyglotsoft/jsonx/unmarshal"
)

var (
	defaultMarshalEngine   = marshal.New("")
	defaultUnmarshalEngine = unmarshal.New("")
)

// inputCutset: entry points trim surrounding blanks so the productions can
// stay anchored at offset zero.
const inputCutset = " \t\r\n"

func marshalEngine(cfg Options) *marshal.Engine {
	if cfg.TimeLayout == "" {
		return defaultMarshalEngine
	}
	return marshal.New(cfg.TimeLayout)
}

func unmarshalEngine(cfg Options) *unmarshal.Engine {
	if cfg.TimeLayout == "" {
		return defaultUnmarshalEngine
	}
	return unmarshal.New(cfg.TimeLayout)
}

// Marshal serializes value as JSON text. Object members whose value would
// render as null are omitted.
func Marshal(value interface{}, opts ...Option) ([]byte, error) {
	return marshalEngine(resolveOptions(opts)).Marshal(value)
}

// Parse parses data into a generic value tree.
func Parse(data []byte) (interface{}, error) {
	return parse.Value(data)
}

// ParseObject parses a top-level JSON object into its raw member map.
func ParseObject(data []byte) (map[string]interface{}, error) {
	return parse.Object(bytes.Trim(data, inputCutset))
}

// ParseInto parses data and populates dest, which must be a pointer to a
// struct or a pointer to a slice of structs.
func ParseInto(data []byte, dest interface{}, opts ...Option) error {
	engine := unmarshalEngine(resolveOptions(opts))
	rt := reflect.TypeOf(dest)
	if rt == nil || rt.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: dest must be a non-nil pointer", ErrUnsupportedType)
	}
	trimmed := bytes.Trim(data, inputCutset)
	if rt.Elem().Kind() == reflect.Slice {
		elements, err := parse.Array(trimmed)
		if err != nil {
			return err
		}
		return engine.PopulateSlice(dest, elements)
	}
	members, err := parse.Object(trimmed)
	if err != nil {
		return err
	}
	return engine.Populate(dest, members)
}

// ParseReader slurps r and parses the content as a generic value tree.
func ParseReader(r io.Reader) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseReaderInto slurps r and populates dest as ParseInto does.
func ParseReaderInto(r io.Reader, dest interface{}, opts ...Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return ParseInto(data, dest, opts...)
}

// ParseBool parses a boolean literal.
func ParseBool(data []byte) (bool, error) {
	return parse.Bool(bytes.Trim(data, inputCutset))
}

// ParseString parses a string literal.
func ParseString(data []byte) (string, error) {
	return parse.String(bytes.Trim(data, inputCutset))
}

// parseIntegerIn parses an integer literal and range-checks it against
// [min, max].
func parseIntegerIn(data []byte, min, max int64) (int64, error) {
	i, err := parseInteger(data)
	if err != nil {
		return 0, err
	}
	if i < min || i > max {
		return 0, fmt.Errorf("%w: %d outside [%d, %d]", ErrNumericRange, i, min, max)
	}
	return i, nil
}

func parseInteger(data []byte) (int64, error) {
	v, err := parse.Number(bytes.Trim(data, inputCutset))
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: expected an integer, got %v", ErrShapeMismatch, v)
	}
	return i, nil
}

// ParseInt8 parses an integer literal representable as int8.
func ParseInt8(data []byte) (int8, error) {
	i, err := parseIntegerIn(data, math.MinInt8, math.MaxInt8)
	return int8(i), err
}

// ParseInt16 parses an integer literal representable as int16.
func ParseInt16(data []byte) (int16, error) {
	i, err := parseIntegerIn(data, math.MinInt16, math.MaxInt16)
	return int16(i), err
}

// ParseInt32 parses an integer literal representable as int32.
func ParseInt32(data []byte) (int32, error) {
	i, err := parseIntegerIn(data, math.MinInt32, math.MaxInt32)
	return int32(i), err
}

// ParseInt64 parses an integer literal. The full 64-bit range is accepted,
// so there is no range check.
func ParseInt64(data []byte) (int64, error) {
	return parseInteger(data)
}

// ParseFloat64 parses a number literal as float64.
func ParseFloat64(data []byte) (float64, error) {
	v, err := parse.Number(bytes.Trim(data, inputCutset))
	if err != nil {
		return 0, err
	}
	return numberToFloat(v), nil
}

// ParseFloat32 parses a number literal as float32.
func ParseFloat32(data []byte) (float32, error) {
	f, err := ParseFloat64(data)
	return float32(f), err
}

func numberToFloat(v interface{}) float64 {
	switch actual := v.(type) {
	case int64:
		return float64(actual)
	case float64:
		return actual
	}
	return 0
}

func parseElements(data []byte) ([]interface{}, error) {
	return parse.Array(bytes.Trim(data, inputCutset))
}

// ParseBoolArray parses a top-level array of boolean literals.
func ParseBoolArray(data []byte) ([]bool, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(elements))
	for i, element := range elements {
		b, ok := element.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a boolean", ErrShapeMismatch, i)
		}
		out[i] = b
	}
	return out, nil
}

// ParseStringArray parses a top-level array of string literals.
func ParseStringArray(data []byte) ([]string, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elements))
	for i, element := range elements {
		s, ok := element.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a string", ErrShapeMismatch, i)
		}
		out[i] = s
	}
	return out, nil
}

// integerElements extracts int64 elements; narrowing by the typed wrappers
// truncates silently.
func integerElements(data []byte) ([]int64, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(elements))
	for i, element := range elements {
		n, ok := element.(int64)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an integer", ErrShapeMismatch, i)
		}
		out[i] = n
	}
	return out, nil
}

// ParseInt8Array parses a top-level array of integers, truncating each to
// int8.
func ParseInt8Array(data []byte) ([]int8, error) {
	values, err := integerElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]int8, len(values))
	for i, v := range values {
		out[i] = int8(v)
	}
	return out, nil
}

// ParseInt16Array parses a top-level array of integers, truncating each to
// int16.
func ParseInt16Array(data []byte) ([]int16, error) {
	values, err := integerElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]int16, len(values))
	for i, v := range values {
		out[i] = int16(v)
	}
	return out, nil
}

// ParseInt32Array parses a top-level array of integers, truncating each to
// int32.
func ParseInt32Array(data []byte) ([]int32, error) {
	values, err := integerElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out, nil
}

// ParseInt64Array parses a top-level array of integers.
func ParseInt64Array(data []byte) ([]int64, error) {
	return integerElements(data)
}

// ParseFloat64Array parses a top-level array of numbers.
func ParseFloat64Array(data []byte) ([]float64, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(elements))
	for i, element := range elements {
		switch actual := element.(type) {
		case int64:
			out[i] = float64(actual)
		case float64:
			out[i] = actual
		default:
			return nil, fmt.Errorf("%w: element %d is not a number", ErrShapeMismatch, i)
		}
	}
	return out, nil
}

// ParseFloat32Array parses a top-level array of numbers as float32.
func ParseFloat32Array(data []byte) ([]float32, error) {
	values, err := ParseFloat64Array(data)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

// ParseObjectArray parses a top-level array of objects into raw member
// maps.
func ParseObjectArray(data []byte) ([]map[string]interface{}, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, len(elements))
	for i, element := range elements {
		members, ok := element.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrShapeMismatch, i)
		}
		out[i] = members
	}
	return out, nil
}

// ParseTypedArray parses a top-level array of objects into []T, T a struct
// type.
func ParseTypedArray[T any](data []byte, opts ...Option) ([]T, error) {
	elements, err := parseElements(data)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(elements))
	if err := unmarshalEngine(resolveOptions(opts)).PopulateSlice(&out, elements); err != nil {
		return nil, err
	}
	return out, nil
}
