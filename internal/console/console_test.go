//go:build !windows

package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Set(t *testing.T) {
	var c Console
	assert.False(t, c.Open())

	require.NoError(t, c.Set(true))
	assert.True(t, c.Open())

	require.NoError(t, c.Set(true))
	assert.True(t, c.Open())

	require.NoError(t, c.Set(false))
	assert.False(t, c.Open())
}
