//go:build cgo

package nativebridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulePath_TestBinary(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	path := ModulePath()
	require.NotEmpty(t, path)
	assert.Equal(t, filepath.Base(exe), filepath.Base(path))
}
