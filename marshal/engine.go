// Package marshal renders in-memory values as JSON text. Dispatch follows
// the value's runtime shape; structs go through cached per-type plans so the
// key set and order are computed once per type. Null-valued members are
// omitted, and both struct fields and map keys are emitted in sorted order
// for deterministic output.
package marshal

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"
	"unsafe"

	"github.com/polyglotsoft/jsonx/internal/errs"
	"github.com/viant/xunsafe"
)

// DefaultTimeLayout matches the layout the mapper parses, so time values
// round-trip by default.
const DefaultTimeLayout = "2006-01-02 15:04:05"

var ErrUnsupportedType = errs.ErrUnsupportedType

var (
	timeType          = reflect.TypeOf(time.Time{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

	bufPool = sync.Pool{New: func() interface{} { b := make([]byte, 0, 256); return &b }}
)

// Engine writes values as JSON.
type Engine struct {
	timeLayout string
}

func New(timeLayout string) *Engine {
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	return &Engine{timeLayout: timeLayout}
}

func (e *Engine) Marshal(value interface{}) ([]byte, error) {
	bp := bufPool.Get().(*[]byte)
	buf, err := e.AppendValue((*bp)[:0], value)
	if err != nil {
		bufPool.Put(bp)
		return nil, err
	}
	out := append([]byte(nil), buf...)
	*bp = buf[:0]
	bufPool.Put(bp)
	return out, nil
}

// AppendValue appends the rendition of value to dst.
func (e *Engine) AppendValue(dst []byte, value interface{}) ([]byte, error) {
	if value == nil {
		return append(dst, "null"...), nil
	}
	return e.appendValue(dst, reflect.ValueOf(value))
}

func (e *Engine) appendValue(dst []byte, rv reflect.Value) ([]byte, error) {
	if !rv.IsValid() {
		return append(dst, "null"...), nil
	}
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return append(dst, "null"...), nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(dst, rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(dst, rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.AppendUint(dst, rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.AppendFloat(dst, rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.AppendFloat(dst, rv.Float(), 'g', -1, 64), nil
	case reflect.String:
		return appendQuotedString(dst, rv.String()), nil
	case reflect.Slice, reflect.Array:
		if text, ok, err := textOf(rv); ok {
			if err != nil {
				return nil, err
			}
			return appendQuotedString(dst, string(text)), nil
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return append(dst, "null"...), nil
		}
		return e.appendSequence(dst, rv)
	case reflect.Map:
		if rv.IsNil() {
			return append(dst, "null"...), nil
		}
		return e.appendMap(dst, rv)
	case reflect.Struct:
		if rv.Type() == timeType {
			return appendQuotedString(dst, rv.Interface().(time.Time).Format(e.timeLayout)), nil
		}
		if text, ok, err := textOf(rv); ok {
			if err != nil {
				return nil, err
			}
			return appendQuotedString(dst, string(text)), nil
		}
		return e.appendStruct(dst, rv)
	}
	return nil, fmt.Errorf("%w: cannot serialize %s", ErrUnsupportedType, rv.Type())
}

// textOf resolves an encoding.TextMarshaler implementation on rv or its
// address. This is how InetAddress-style and big-integer values render: both
// net.IP and *big.Int implement MarshalText.
func textOf(rv reflect.Value) ([]byte, bool, error) {
	if !rv.CanInterface() {
		return nil, false, nil
	}
	var m encoding.TextMarshaler
	if rv.Type().Implements(textMarshalerType) {
		m, _ = rv.Interface().(encoding.TextMarshaler)
	} else if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(textMarshalerType) {
		m, _ = rv.Addr().Interface().(encoding.TextMarshaler)
	}
	if m == nil {
		return nil, false, nil
	}
	text, err := m.MarshalText()
	return text, true, err
}

func (e *Engine) appendSequence(dst []byte, rv reflect.Value) ([]byte, error) {
	dst = append(dst, '[')
	var err error
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			dst = append(dst, ',')
		}
		if dst, err = e.appendValue(dst, rv.Index(i)); err != nil {
			return nil, err
		}
	}
	return append(dst, ']'), nil
}

// appendMap writes entries in sorted key order, dropping null-valued
// entries entirely. Non-string keys are stringified.
func (e *Engine) appendMap(dst []byte, rv reflect.Value) ([]byte, error) {
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	byName := make(map[string]reflect.Value, len(keys))
	for i, k := range keys {
		name := keyString(k)
		names[i] = name
		byName[name] = k
	}
	sort.Strings(names)

	dst = append(dst, '{')
	count := 0
	var err error
	for _, name := range names {
		value := rv.MapIndex(byName[name])
		if rendersNull(value) {
			continue
		}
		if count > 0 {
			dst = append(dst, ',')
		}
		count++
		dst = appendQuotedString(dst, name)
		dst = append(dst, ':')
		if dst, err = e.appendValue(dst, value); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func (e *Engine) appendStruct(dst []byte, rv reflect.Value) ([]byte, error) {
	plan := planFor(rv.Type())
	var structPtr unsafe.Pointer
	if rv.CanAddr() {
		structPtr = unsafe.Pointer(rv.Addr().Pointer())
	}
	dst = append(dst, '{')
	count := 0
	var err error
	for i := range plan.fields {
		fp := &plan.fields[i]
		if structPtr != nil && fp.xField != nil && fp.scalar {
			// addressable scalar fields skip reflection entirely
			if count > 0 {
				dst = append(dst, ',')
			}
			count++
			dst = append(dst, fp.keyLit...)
			dst = appendScalar(dst, fp.kind, fp.xField.Pointer(structPtr))
			continue
		}
		fv, ok := fieldByIndex(rv, fp.index)
		if !ok || rendersNull(fv) {
			continue
		}
		if count > 0 {
			dst = append(dst, ',')
		}
		count++
		dst = append(dst, fp.keyLit...)
		if fp.timeLayout != "" {
			if tv, isTime := timeOf(fv); isTime {
				dst = appendQuotedString(dst, tv.Format(fp.timeLayout))
				continue
			}
		}
		if dst, err = e.appendValue(dst, fv); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

func timeOf(rv reflect.Value) (time.Time, bool) {
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return time.Time{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct && rv.Type() == timeType {
		return rv.Interface().(time.Time), true
	}
	return time.Time{}, false
}

func appendScalar(dst []byte, kind reflect.Kind, ptr unsafe.Pointer) []byte {
	switch kind {
	case reflect.Bool:
		return strconv.AppendBool(dst, *xunsafe.AsBoolPtr(ptr))
	case reflect.Int:
		return strconv.AppendInt(dst, int64(*xunsafe.AsIntPtr(ptr)), 10)
	case reflect.Int8:
		return strconv.AppendInt(dst, int64(*xunsafe.AsInt8Ptr(ptr)), 10)
	case reflect.Int16:
		return strconv.AppendInt(dst, int64(*xunsafe.AsInt16Ptr(ptr)), 10)
	case reflect.Int32:
		return strconv.AppendInt(dst, int64(*xunsafe.AsInt32Ptr(ptr)), 10)
	case reflect.Int64:
		return strconv.AppendInt(dst, *xunsafe.AsInt64Ptr(ptr), 10)
	case reflect.Uint:
		return strconv.AppendUint(dst, uint64(*xunsafe.AsUintPtr(ptr)), 10)
	case reflect.Uint8:
		return strconv.AppendUint(dst, uint64(*xunsafe.AsUint8Ptr(ptr)), 10)
	case reflect.Uint16:
		return strconv.AppendUint(dst, uint64(*xunsafe.AsUint16Ptr(ptr)), 10)
	case reflect.Uint32:
		return strconv.AppendUint(dst, uint64(*xunsafe.AsUint32Ptr(ptr)), 10)
	case reflect.Uint64:
		return strconv.AppendUint(dst, *xunsafe.AsUint64Ptr(ptr), 10)
	case reflect.Float32:
		return strconv.AppendFloat(dst, float64(*xunsafe.AsFloat32Ptr(ptr)), 'g', -1, 32)
	case reflect.Float64:
		return strconv.AppendFloat(dst, *xunsafe.AsFloat64Ptr(ptr), 'g', -1, 64)
	case reflect.String:
		return appendQuotedString(dst, *xunsafe.AsStringPtr(ptr))
	}
	return dst
}

// rendersNull reports whether a value would serialize as null; such members
// are omitted from objects.
func rendersNull(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return true
		}
		return rendersNull(rv.Elem())
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// fieldByIndex walks an embedded-field index chain, reporting false when a
// nil anonymous pointer makes the field unreachable.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for n, i := range index {
		if n > 0 && rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(i)
	}
	return rv, true
}
