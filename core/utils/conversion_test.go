package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected int64
	}{
		{"nil", nil, 0},
		{"float", float64(1700000000123), 1700000000123},
		{"json number", json.Number("42"), 42},
		{"json float number", json.Number("42.9"), 42},
		{"string", " 17 ", 17},
		{"float string", "3.5", 3},
		{"garbage", "abc", 0},
		{"bytes", []byte("9"), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToInt64(tt.in))
		})
	}
}

func TestToFloat64Ptr(t *testing.T) {
	assert.Nil(t, ToFloat64Ptr(nil))
	assert.Nil(t, ToFloat64Ptr("north"))
	assert.Nil(t, ToFloat64Ptr(map[string]any{}))

	v := ToFloat64Ptr("-12.25")
	if assert.NotNil(t, v) {
		assert.Equal(t, -12.25, *v)
	}
	v = ToFloat64Ptr(json.Number("0"))
	if assert.NotNil(t, v) {
		assert.Equal(t, 0.0, *v)
	}
}

func TestToStringPtr(t *testing.T) {
	assert.Nil(t, ToStringPtr(nil))
	assert.Equal(t, "12", *ToStringPtr(12))
	assert.Equal(t, "", *ToStringPtr(""))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(float64(1)))
	assert.True(t, ToBool(json.Number("1")))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}
