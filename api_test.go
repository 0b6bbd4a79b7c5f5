package jsonx

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	// null-free trees round-trip exactly
	var testCases = []interface{}{
		map[string]interface{}{
			"id":     int64(7),
			"name":   "alpha",
			"active": true,
			"score":  1.5,
			"tags":   []interface{}{"x", "y"},
		},
		[]interface{}{int64(1), "two", 3.5, false},
		map[string]interface{}{},
		[]interface{}{},
	}
	for _, tree := range testCases {
		data, err := Marshal(tree)
		if !assert.NoError(t, err) {
			continue
		}
		back, err := Parse(data)
		if !assert.NoError(t, err, string(data)) {
			continue
		}
		assert.Equal(t, tree, back, string(data))
	}
}

func TestParse_Idempotence(t *testing.T) {
	input := []byte(`{"a":[1,2.5,"x"],"b":{"c":true},"d":null}`)
	first, err := Parse(input)
	assert.NoError(t, err)

	data, err := Marshal(first)
	assert.NoError(t, err)
	second, err := Parse(data)
	assert.NoError(t, err)

	data, err = Marshal(second)
	assert.NoError(t, err)
	third, err := Parse(data)
	assert.NoError(t, err)

	assert.Equal(t, second, third)
}

func TestParseInto(t *testing.T) {
	type embedded struct {
		Type string `json:"type"`
	}
	type record struct {
		Name     string   `json:"name"`
		Embedded embedded `json:"embedded"`
	}

	var actual record
	err := ParseInto([]byte(`{"name":"v","embedded":{"type":"t"}}`), &actual)
	assert.NoError(t, err)
	assert.Equal(t, record{Name: "v", Embedded: embedded{Type: "t"}}, actual)
}

func TestParseInto_Slice(t *testing.T) {
	type row struct {
		ID int `json:"id"`
	}
	var actual []row
	err := ParseInto([]byte(` [{"id":1},{"id":2}] `), &actual)
	assert.NoError(t, err)
	assert.Equal(t, []row{{ID: 1}, {ID: 2}}, actual)
}

func TestParseInto_BadDest(t *testing.T) {
	err := ParseInto([]byte(`{}`), nil)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	var n int
	err = ParseInto([]byte(`{}`), n)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestParseInto_TimeOptions(t *testing.T) {
	type payload struct {
		At time.Time `json:"at"`
	}
	var actual payload
	err := ParseInto([]byte(`{"at":"2026-08-26 10:30:00"}`), &actual)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC), actual.At)

	actual = payload{}
	err = ParseInto([]byte(`{"at":"26/08/2026"}`), &actual, WithDateFormat("dd/MM/yyyy"))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), actual.At)
}

func TestParseScalars(t *testing.T) {
	b, err := ParseBool([]byte(` true `))
	assert.NoError(t, err)
	assert.True(t, b)

	s, err := ParseString([]byte(`"text"`))
	assert.NoError(t, err)
	assert.Equal(t, "text", s)

	i64, err := ParseInt64([]byte(`9223372036854775807`))
	assert.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), i64)

	f64, err := ParseFloat64([]byte(`-2.5e2`))
	assert.NoError(t, err)
	assert.Equal(t, -250.0, f64)

	f32, err := ParseFloat32([]byte(`0.5`))
	assert.NoError(t, err)
	assert.Equal(t, float32(0.5), f32)

	// integers widen to float transparently
	f64, err = ParseFloat64([]byte(`42`))
	assert.NoError(t, err)
	assert.Equal(t, 42.0, f64)
}

func TestParseScalars_RangeChecks(t *testing.T) {
	i8, err := ParseInt8([]byte(`127`))
	assert.NoError(t, err)
	assert.Equal(t, int8(127), i8)

	_, err = ParseInt8([]byte(`128`))
	assert.True(t, errors.Is(err, ErrNumericRange))

	i8, err = ParseInt8([]byte(`-128`))
	assert.NoError(t, err)
	assert.Equal(t, int8(-128), i8)

	_, err = ParseInt8([]byte(`-129`))
	assert.True(t, errors.Is(err, ErrNumericRange))

	_, err = ParseInt16([]byte(`32768`))
	assert.True(t, errors.Is(err, ErrNumericRange))

	i16, err := ParseInt16([]byte(`-32768`))
	assert.NoError(t, err)
	assert.Equal(t, int16(-32768), i16)

	_, err = ParseInt32([]byte(`2147483648`))
	assert.True(t, errors.Is(err, ErrNumericRange))

	i32, err := ParseInt32([]byte(`2147483647`))
	assert.NoError(t, err)
	assert.Equal(t, int32(2147483647), i32)
}

func TestParseScalars_KindChecks(t *testing.T) {
	_, err := ParseInt64([]byte(`1.5`))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = ParseInt32([]byte(`2e1`))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = ParseBool([]byte(`"true"`))
	assert.True(t, errors.Is(err, ErrNoValue))

	_, err = ParseString([]byte(`12`))
	assert.True(t, errors.Is(err, ErrNoValue))

	_, err = ParseInt64([]byte(`"12"`))
	assert.True(t, errors.Is(err, ErrNoValue))
}

func TestParseArrays(t *testing.T) {
	bools, err := ParseBoolArray([]byte(`[true,false,true]`))
	assert.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, bools)

	strs, err := ParseStringArray([]byte(`["a","b"]`))
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs)

	i64s, err := ParseInt64Array([]byte(`[1,-2,3]`))
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, i64s)

	f64s, err := ParseFloat64Array([]byte(`[1,2.5]`))
	assert.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, f64s)

	f32s, err := ParseFloat32Array([]byte(`[0.5]`))
	assert.NoError(t, err)
	assert.Equal(t, []float32{0.5}, f32s)

	empty, err := ParseInt32Array([]byte(`[]`))
	assert.NoError(t, err)
	assert.Empty(t, empty)
}

// Narrow-width array forms truncate silently, unlike the range-checked
// scalar forms.
func TestParseArrays_Truncation(t *testing.T) {
	i8s, err := ParseInt8Array([]byte(`[127,128,300]`))
	assert.NoError(t, err)
	assert.Equal(t, []int8{127, -128, 44}, i8s)

	i16s, err := ParseInt16Array([]byte(`[70000]`))
	assert.NoError(t, err)
	assert.Equal(t, []int16{4464}, i16s)
}

func TestParseArrays_ShapeChecks(t *testing.T) {
	_, err := ParseBoolArray([]byte(`[true,1]`))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = ParseInt64Array([]byte(`[1,"2"]`))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = ParseStringArray([]byte(`{"a":1}`))
	assert.True(t, errors.Is(err, ErrNoValue))
}

func TestParseObjectArray(t *testing.T) {
	rows, err := ParseObjectArray([]byte(`[{"id":1},{"id":2}]`))
	assert.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"id": int64(1)},
		{"id": int64(2)},
	}, rows)

	_, err = ParseObjectArray([]byte(`[{"id":1},2]`))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestParseTypedArray(t *testing.T) {
	type row struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	rows, err := ParseTypedArray[row]([]byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))
	assert.NoError(t, err)
	assert.Equal(t, []row{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, rows)
}

func TestParseObject(t *testing.T) {
	members, err := ParseObject([]byte(` {"k":"v"} `))
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"k": "v"}, members)
}

func TestParseReader(t *testing.T) {
	v, err := ParseReader(strings.NewReader(`{"n":1}`))
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"n": int64(1)}, v)

	type row struct {
		N int `json:"n"`
	}
	var actual row
	err = ParseReaderInto(strings.NewReader(`{"n":5}`), &actual)
	assert.NoError(t, err)
	assert.Equal(t, 5, actual.N)
}

// The escape-level content of string values survives a full parse/serialize
// cycle, including unpaired surrogates.
func TestEscapeRoundTrip(t *testing.T) {
	v, err := Parse([]byte(`{"key":"\uDFAA"}`))
	assert.NoError(t, err)
	s := v.(map[string]interface{})["key"].(string)
	assert.Equal(t, []byte{0xED, 0xBE, 0xAA}, []byte(s))

	data, err := Marshal(v)
	assert.NoError(t, err)
	back, err := Parse(data)
	assert.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestMarshal_NullOmission(t *testing.T) {
	data, err := Marshal(map[string]interface{}{"a": int64(1), "b": nil})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}
