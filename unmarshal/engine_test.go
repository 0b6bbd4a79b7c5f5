package unmarshal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type account struct {
	ID      int
	Name    string
	Balance float64
	Active  bool
}

type order struct {
	ID      int64
	Placed  time.Time
	Sent    time.Time `format:"dateFormat=yyyy-MM-dd"`
	Items   []item
	Labels  []string
	Meta    map[string]interface{}
	Account *account
}

type item struct {
	SKU   string `json:"sku"`
	Count int32
}

func TestEngine_Populate(t *testing.T) {
	engine := New("")

	var testCases = []struct {
		description string
		members     map[string]interface{}
		expect      order
		expectError bool
	}{
		{
			description: "scalars and nested object",
			members: map[string]interface{}{
				"id": int64(7),
				"account": map[string]interface{}{
					"id":      int64(1),
					"name":    "alpha",
					"balance": 10.5,
					"active":  true,
				},
			},
			expect: order{
				ID:      7,
				Account: &account{ID: 1, Name: "alpha", Balance: 10.5, Active: true},
			},
		},
		{
			description: "array of nested objects",
			members: map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{"sku": "a-1", "count": int64(2)},
					map[string]interface{}{"sku": "b-2", "count": int64(5)},
				},
			},
			expect: order{
				Items: []item{{SKU: "a-1", Count: 2}, {SKU: "b-2", Count: 5}},
			},
		},
		{
			description: "string array and opaque map",
			members: map[string]interface{}{
				"labels": []interface{}{"new", "bulk"},
				"meta":   map[string]interface{}{"source": "import", "rank": int64(3)},
			},
			expect: order{
				Labels: []string{"new", "bulk"},
				Meta:   map[string]interface{}{"source": "import", "rank": int64(3)},
			},
		},
		{
			description: "default time layout",
			members:     map[string]interface{}{"placed": "2026-08-26 10:30:00"},
			expect:      order{Placed: time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)},
		},
		{
			description: "per-field dateFormat tag",
			members:     map[string]interface{}{"sent": "2026-08-26"},
			expect:      order{Sent: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)},
		},
		{
			description: "absent and null members stay zero",
			members:     map[string]interface{}{"account": nil},
			expect:      order{},
		},
		{
			description: "unknown members are ignored",
			members:     map[string]interface{}{"nosuch": int64(1)},
			expect:      order{},
		},
		{
			description: "array into scalar field",
			members:     map[string]interface{}{"id": []interface{}{int64(1)}},
			expectError: true,
		},
		{
			description: "scalar into nested object field",
			members:     map[string]interface{}{"account": "not an object"},
			expectError: true,
		},
		{
			description: "object into array field",
			members:     map[string]interface{}{"items": map[string]interface{}{}},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		var actual order
		err := engine.Populate(&actual, testCase.members)
		if testCase.expectError {
			assert.True(t, errors.Is(err, ErrShapeMismatch), testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

// Integer narrowing truncates silently; only the scalar entry points
// range-check.
func TestEngine_SilentNarrowing(t *testing.T) {
	type widths struct {
		B int8
		S int16
		F float32
	}
	var actual widths
	err := New("").Populate(&actual, map[string]interface{}{
		"b": int64(300),
		"s": int64(70000),
		"f": int64(10),
	})
	assert.NoError(t, err)
	assert.Equal(t, int8(44), actual.B)
	assert.Equal(t, int16(4464), actual.S)
	assert.Equal(t, float32(10), actual.F)
}

// Embedded structs flatten into the outer plan even when the embedded type
// itself is unexported; nil pointer embeds are allocated on first write.
func TestEngine_EmbeddedFields(t *testing.T) {
	type base struct {
		Kind string
	}
	type outer struct {
		*base
		Name string
	}
	var actual outer
	err := New("").Populate(&actual, map[string]interface{}{
		"kind": "widget",
		"name": "left",
	})
	assert.NoError(t, err)
	assert.Equal(t, "left", actual.Name)
	if assert.NotNil(t, actual.base) {
		assert.Equal(t, "widget", actual.Kind)
	}

	type flat struct {
		base
		Name string
	}
	var byValue flat
	err = New("").Populate(&byValue, map[string]interface{}{"kind": "gadget"})
	assert.NoError(t, err)
	assert.Equal(t, "gadget", byValue.Kind)
}

func TestEngine_PopulateSlice(t *testing.T) {
	var actual []item
	err := New("").PopulateSlice(&actual, []interface{}{
		map[string]interface{}{"sku": "a", "count": int64(1)},
		map[string]interface{}{"sku": "b", "count": int64(2)},
	})
	assert.NoError(t, err)
	assert.Equal(t, []item{{SKU: "a", Count: 1}, {SKU: "b", Count: 2}}, actual)
}

func TestEngine_PointerScalars(t *testing.T) {
	type payload struct {
		Count *int
		Note  *string
	}
	var actual payload
	err := New("").Populate(&actual, map[string]interface{}{
		"count": int64(4),
		"note":  "keep",
	})
	assert.NoError(t, err)
	if assert.NotNil(t, actual.Count) {
		assert.Equal(t, 4, *actual.Count)
	}
	if assert.NotNil(t, actual.Note) {
		assert.Equal(t, "keep", *actual.Note)
	}
}

func TestEngine_UnsupportedDest(t *testing.T) {
	var n int
	err := New("").Populate(&n, map[string]interface{}{})
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	err = New("").Populate(nil, map[string]interface{}{})
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestEngine_CustomLayout(t *testing.T) {
	type payload struct {
		At time.Time
	}
	var actual payload
	engine := New("2006/01/02")
	err := engine.Populate(&actual, map[string]interface{}{"at": "2026/08/26"})
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), actual.At)
}
