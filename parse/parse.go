// Package parse implements a hand-written recursive-descent JSON parser
// (RFC 8259) over an in-memory byte buffer.
//
// Every grammar production takes the buffer and a start offset and returns
// the offset just past the matched text; an unchanged offset means the rule
// did not match at that position. Failed productions have no side effects,
// so alternatives backtrack by simply trying the next rule at the same
// offset. Parsed values form a closed set: nil, bool, int64, float64,
// string, []interface{} and map[string]interface{}.
package parse

import (
	"fmt"

	"github.com/polyglotsoft/jsonx/internal/errs"
)

// ErrNoValue is returned by the entry points when the starting production
// makes no progress from offset zero.
var ErrNoValue = errs.ErrNoValue

// emptyArray is the canonical empty-array value. Sharing it is safe: it has
// zero capacity, so any append reallocates.
var emptyArray = []interface{}{}

// Value parses one JSON element anchored at offset zero. Trailing input past
// the matched element is ignored.
func Value(buf []byte) (interface{}, error) {
	next, v := nextElement(buf, 0)
	if next == 0 {
		return nil, ErrNoValue
	}
	return v, nil
}

// Object parses a JSON object anchored at offset zero.
func Object(buf []byte) (map[string]interface{}, error) {
	next, v := nextObject(buf, 0)
	if next == 0 {
		return nil, fmt.Errorf("%w: expected an object", ErrNoValue)
	}
	return v, nil
}

// Array parses a JSON array anchored at offset zero.
func Array(buf []byte) ([]interface{}, error) {
	next, v := nextArray(buf, 0)
	if next == 0 {
		return nil, fmt.Errorf("%w: expected an array", ErrNoValue)
	}
	return v, nil
}

// Number parses a JSON number anchored at offset zero. The result is an
// int64 when the number had neither fraction nor exponent, a float64
// otherwise.
func Number(buf []byte) (interface{}, error) {
	next, v := nextNumber(buf, 0)
	if next == 0 {
		return nil, fmt.Errorf("%w: expected a number", ErrNoValue)
	}
	return v, nil
}

// String parses a JSON string anchored at offset zero.
func String(buf []byte) (string, error) {
	next, s := nextString(buf, 0)
	if next == 0 {
		return "", fmt.Errorf("%w: expected a string", ErrNoValue)
	}
	return s, nil
}

// Bool parses a JSON boolean literal anchored at offset zero.
func Bool(buf []byte) (bool, error) {
	if next := nextTrue(buf, 0); next != 0 {
		return true, nil
	}
	if next := nextFalse(buf, 0); next != 0 {
		return false, nil
	}
	return false, fmt.Errorf("%w: expected true or false", ErrNoValue)
}

// element: ws value ws
//
// Whitespace consumed ahead of a value that then fails to match is not kept:
// the element production as a whole reports no match at its start offset.
func nextElement(buf []byte, idx int) (int, interface{}) {
	start := nextWhitespace(buf, idx)
	next, v := nextValue(buf, start)
	if next == start {
		return idx, nil
	}
	return nextWhitespace(buf, next), v
}

// value: object | array | string | number | "true" | "false" | "null"
func nextValue(buf []byte, idx int) (int, interface{}) {
	if next, v := nextObject(buf, idx); next != idx {
		return next, v
	}
	if next, v := nextArray(buf, idx); next != idx {
		return next, v
	}
	if next, s := nextString(buf, idx); next != idx {
		return next, s
	}
	if next, v := nextNumber(buf, idx); next != idx {
		return next, v
	}
	if next := nextTrue(buf, idx); next != idx {
		return next, true
	}
	if next := nextFalse(buf, idx); next != idx {
		return next, false
	}
	if next := nextNull(buf, idx); next != idx {
		return next, nil
	}
	return idx, nil
}

// object: '{' ws '}' | '{' members '}'
func nextObject(buf []byte, idx int) (int, map[string]interface{}) {
	if idx >= len(buf) || buf[idx] != '{' {
		return idx, nil
	}
	next := nextWhitespace(buf, idx+1)
	if next < len(buf) && buf[next] == '}' {
		return next + 1, map[string]interface{}{}
	}
	members := map[string]interface{}{}
	next = nextMembers(buf, idx+1, members)
	if next != idx+1 && next < len(buf) && buf[next] == '}' {
		return next + 1, members
	}
	return idx, nil
}

// members: member | member ',' members
//
// Matched members fold into the map as they are parsed; duplicate keys
// resolve last-write-wins. A comma must be followed by another member or the
// whole production fails and the partially filled map is discarded by the
// caller.
func nextMembers(buf []byte, idx int, members map[string]interface{}) int {
	next, key, value := nextMember(buf, idx)
	if next == idx {
		return idx
	}
	members[key] = value
	if next < len(buf) && buf[next] == ',' {
		after := nextMembers(buf, next+1, members)
		if after == next+1 {
			return idx
		}
		return after
	}
	return next
}

// member: ws string ws ':' element
func nextMember(buf []byte, idx int) (int, string, interface{}) {
	start := nextWhitespace(buf, idx)
	next, key := nextString(buf, start)
	if next == start {
		return idx, "", nil
	}
	next = nextWhitespace(buf, next)
	if next < len(buf) && buf[next] == ':' {
		end, value := nextElement(buf, next+1)
		if end != next+1 {
			return end, key, value
		}
	}
	return idx, "", nil
}

// array: '[' ws ']' | '[' elements ']'
func nextArray(buf []byte, idx int) (int, []interface{}) {
	if idx >= len(buf) || buf[idx] != '[' {
		return idx, nil
	}
	next := nextWhitespace(buf, idx+1)
	if next < len(buf) && buf[next] == ']' {
		return next + 1, emptyArray
	}
	var elements []interface{}
	next = nextElements(buf, idx+1, &elements)
	if next != idx+1 && next < len(buf) && buf[next] == ']' {
		return next + 1, elements
	}
	return idx, nil
}

// elements: element | element ',' elements
//
// Each comma must be followed by another element; a trailing comma fails the
// whole production.
func nextElements(buf []byte, idx int, elements *[]interface{}) int {
	next, v := nextElement(buf, idx)
	if next == idx {
		return idx
	}
	*elements = append(*elements, v)
	if next < len(buf) && buf[next] == ',' {
		after := nextElements(buf, next+1, elements)
		if after == next+1 {
			return idx
		}
		return after
	}
	return next
}

// "true"
func nextTrue(buf []byte, idx int) int {
	if len(buf)-idx >= 4 && buf[idx] == 't' && buf[idx+1] == 'r' && buf[idx+2] == 'u' && buf[idx+3] == 'e' {
		return idx + 4
	}
	return idx
}

// "false"
func nextFalse(buf []byte, idx int) int {
	if len(buf)-idx >= 5 && buf[idx] == 'f' && buf[idx+1] == 'a' && buf[idx+2] == 'l' && buf[idx+3] == 's' && buf[idx+4] == 'e' {
		return idx + 5
	}
	return idx
}

// "null"
func nextNull(buf []byte, idx int) int {
	if len(buf)-idx >= 4 && buf[idx] == 'n' && buf[idx+1] == 'u' && buf[idx+2] == 'l' && buf[idx+3] == 'l' {
		return idx + 4
	}
	return idx
}
