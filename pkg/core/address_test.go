package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressOffset(t *testing.T) {
	base := Address(0x1000)

	assert.Equal(t, Address(0x1080), base.Offset(0x80))
	assert.Equal(t, Address(0xFF0), base.Offset(-0x10))
	assert.Equal(t, base, base.Offset(0))
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "0X7FF6A1B2", Address(0x7FF6A1B2).String())
	assert.True(t, Address(0).IsNull())
	assert.False(t, Address(1).IsNull())
}

func TestCoordinatesString(t *testing.T) {
	c := Coordinates{X: 1.5, Y: -2, Z: 100.125}
	assert.Equal(t, "(1.500, -2.000, 100.125)", c.String())
}
