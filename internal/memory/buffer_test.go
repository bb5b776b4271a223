package memory

import (
	"testing"

	"github.com/skiprunback/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_FloatRoundTrip(t *testing.T) {
	b := NewBuffer(0x10000, 64)

	b.WriteFloat32(0x10004, 3.25)
	assert.Equal(t, float32(3.25), b.ReadFloat32(0x10004))
	assert.Equal(t, float32(0), b.ReadFloat32(0x10008))
}

func TestBuffer_OutOfRange(t *testing.T) {
	b := NewBuffer(0x10000, 8)

	b.WriteFloat32(0x0FFFC, 1)
	b.WriteFloat32(0x10006, 1)
	assert.Equal(t, float32(0), b.ReadFloat32(0x0FFFC))
	assert.Equal(t, float32(0), b.ReadFloat32(0x10006))
}

func TestBuffer_Image(t *testing.T) {
	b := NewBufferFrom(0x400000, []byte{0x0F, 0x28, 0x81, 0x80, 0x00})

	img, err := b.Image(0x400001, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0x81, 0x80}, img)

	_, err = b.Image(0x400000, 16)
	assert.Error(t, err)

	_, err = b.Image(core.Address(0), 1)
	assert.ErrorIs(t, err, ErrNullAddress)
}
