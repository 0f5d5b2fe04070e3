package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimal_equalAcrossScale(t *testing.T) {
	a := NewDecimal(10, 0)
	b := NewDecimal(100, 1)
	assert.True(t, a.Equal(b))
}

func TestDecimal_stringNegative(t *testing.T) {
	d := NewDecimal(-35, 1)
	assert.Equal(t, "-3.5", d.String())
}

func TestValue_kindGuards(t *testing.T) {
	v := U16Value(7)
	_, ok := v.Bool()
	assert.False(t, ok)

	raw, ok := v.Uint16()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), raw)
}
