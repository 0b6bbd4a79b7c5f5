// Package unmarshal populates typed destinations from parsed key/value
// trees. Field access goes through cached per-type plans built on xunsafe
// field pointers; the parsed tree itself is never mutated.
package unmarshal

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/polyglotsoft/jsonx/internal/errs"
	"github.com/viant/xunsafe"
)

// DefaultTimeLayout is the fixed textual format used for date/time fields
// that do not declare their own layout.
const DefaultTimeLayout = "2006-01-02 15:04:05"

var (
	ErrShapeMismatch   = errs.ErrShapeMismatch
	ErrUnsupportedType = errs.ErrUnsupportedType
)

// Engine maps parsed trees onto typed destinations.
type Engine struct {
	timeLayout string
}

func New(timeLayout string) *Engine {
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	return &Engine{timeLayout: timeLayout}
}

// Populate maps members onto dest, which must be a non-nil struct pointer.
// Members absent from the map, or present as null, leave the destination
// field at its zero value; unknown members are ignored.
func (e *Engine) Populate(dest interface{}, members map[string]interface{}) error {
	rt := reflect.TypeOf(dest)
	if dest == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %v, want a struct pointer", ErrUnsupportedType, rt)
	}
	return e.populateStruct(xunsafe.AsPointer(dest), rt.Elem(), members)
}

// PopulateSlice maps elements onto dest, which must be a non-nil slice
// pointer.
func (e *Engine) PopulateSlice(dest interface{}, elements []interface{}) error {
	rt := reflect.TypeOf(dest)
	if dest == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: %v, want a slice pointer", ErrUnsupportedType, rt)
	}
	return e.assignValue(xunsafe.AsPointer(dest), rt.Elem(), "", elements)
}

func (e *Engine) populateStruct(ptr unsafe.Pointer, rType reflect.Type, members map[string]interface{}) error {
	plan := planFor(rType)
	for _, fp := range plan.fields {
		value, ok := members[fp.key]
		if !ok || value == nil {
			continue
		}
		if err := e.assignValue(fp.resolve(ptr), fp.rType, fp.timeLayout, value); err != nil {
			return fmt.Errorf("field %s: %w", fp.name, err)
		}
	}
	return nil
}

// assignValue coerces one parsed value into the memory at ptr. Integer
// narrowing truncates silently; see the scalar entry points for the
// range-checked surface.
func (e *Engine) assignValue(ptr unsafe.Pointer, rt reflect.Type, timeLayout string, parsed interface{}) error {
	if rt.Kind() == reflect.Ptr {
		if parsed == nil {
			return nil
		}
		inner := xunsafe.SafeDerefPointer(ptr, rt)
		return e.assignValue(inner, rt.Elem(), timeLayout, parsed)
	}
	if parsed == nil {
		return nil
	}
	switch rt.Kind() {
	case reflect.Struct:
		if rt == timeType {
			s, ok := parsed.(string)
			if !ok {
				return fmt.Errorf("%w: %T into time.Time", ErrShapeMismatch, parsed)
			}
			layout := timeLayout
			if layout == "" {
				layout = e.timeLayout
			}
			tm, err := time.ParseInLocation(layout, s, time.UTC)
			if err != nil {
				return err
			}
			*xunsafe.AsTimePtr(ptr) = tm
			return nil
		}
		obj, ok := parsed.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: %T into %s", ErrShapeMismatch, parsed, rt)
		}
		return e.populateStruct(ptr, rt, obj)
	case reflect.String:
		s, ok := parsed.(string)
		if !ok {
			return fmt.Errorf("%w: %T into string", ErrShapeMismatch, parsed)
		}
		*xunsafe.AsStringPtr(ptr) = s
	case reflect.Bool:
		b, ok := parsed.(bool)
		if !ok {
			return fmt.Errorf("%w: %T into bool", ErrShapeMismatch, parsed)
		}
		*xunsafe.AsBoolPtr(ptr) = b
	case reflect.Int:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsIntPtr(ptr) = int(i)
	case reflect.Int8:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsInt8Ptr(ptr) = int8(i)
	case reflect.Int16:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsInt16Ptr(ptr) = int16(i)
	case reflect.Int32:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsInt32Ptr(ptr) = int32(i)
	case reflect.Int64:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsInt64Ptr(ptr) = i
	case reflect.Uint:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsUintPtr(ptr) = uint(i)
	case reflect.Uint8:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsUint8Ptr(ptr) = uint8(i)
	case reflect.Uint16:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsUint16Ptr(ptr) = uint16(i)
	case reflect.Uint32:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsUint32Ptr(ptr) = uint32(i)
	case reflect.Uint64:
		i, err := asInt64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsUint64Ptr(ptr) = uint64(i)
	case reflect.Float32:
		f, err := asFloat64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsFloat32Ptr(ptr) = float32(f)
	case reflect.Float64:
		f, err := asFloat64(parsed)
		if err != nil {
			return err
		}
		*xunsafe.AsFloat64Ptr(ptr) = f
	case reflect.Interface:
		reflect.NewAt(rt, ptr).Elem().Set(reflect.ValueOf(parsed))
	case reflect.Slice:
		items, ok := parsed.([]interface{})
		if !ok {
			return fmt.Errorf("%w: %T into %s", ErrShapeMismatch, parsed, rt)
		}
		slice := reflect.MakeSlice(rt, len(items), len(items))
		elemType := rt.Elem()
		for i := range items {
			elem := reflect.New(elemType)
			if err := e.assignValue(xunsafe.AsPointer(elem.Interface()), elemType, timeLayout, items[i]); err != nil {
				return err
			}
			slice.Index(i).Set(elem.Elem())
		}
		reflect.NewAt(rt, ptr).Elem().Set(slice)
	case reflect.Map:
		obj, ok := parsed.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: %T into %s", ErrShapeMismatch, parsed, rt)
		}
		if rt.Key().Kind() != reflect.String {
			return fmt.Errorf("%w: %s, map keys must be strings", ErrUnsupportedType, rt)
		}
		m := reflect.MakeMapWithSize(rt, len(obj))
		elemType := rt.Elem()
		for k, v := range obj {
			elem := reflect.New(elemType)
			if err := e.assignValue(xunsafe.AsPointer(elem.Interface()), elemType, timeLayout, v); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(rt.Key()), elem.Elem())
		}
		reflect.NewAt(rt, ptr).Elem().Set(m)
	default:
		// pass-through for anything directly assignable
		if reflect.TypeOf(parsed).AssignableTo(rt) {
			reflect.NewAt(rt, ptr).Elem().Set(reflect.ValueOf(parsed))
			return nil
		}
		return fmt.Errorf("%w: %T into %s", ErrShapeMismatch, parsed, rt)
	}
	return nil
}

func asInt64(parsed interface{}) (int64, error) {
	i, ok := parsed.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: %T into integer field", errs.ErrShapeMismatch, parsed)
	}
	return i, nil
}

func asFloat64(parsed interface{}) (float64, error) {
	switch v := parsed.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %T into float field", errs.ErrShapeMismatch, parsed)
}
