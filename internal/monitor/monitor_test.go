package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip_status.json")
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	s := NewService(Dependencies{
		Path: path,
		Status: func() Status {
			return Status{
				Time:      at,
				Plugin:    "Sekiro Skip Runback",
				Pointer:   "0X7FF600001000",
				Intercept: &plugin.InterceptStats{Hits: 10, Filtered: 2, Updates: 1},
				Waypoint:  &core.Coordinates{X: 1, Y: 2, Z: 3},
			}
		},
	})
	require.NoError(t, s.WriteStatus())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Sekiro Skip Runback", got["plugin"])
	assert.Equal(t, "0X7FF600001000", got["pointer"])
	assert.Equal(t, "2026-10-19T08:00:00Z", got["time"])
	assert.Equal(t, map[string]any{"hits": float64(10), "filtered": float64(2), "updates": float64(1)}, got["intercept"])
	assert.NotContains(t, got, "position")
}

func TestWriteStatus_FillsTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip_status.json")
	s := NewService(Dependencies{Path: path, Status: func() Status { return Status{Plugin: "p"} }})
	require.NoError(t, s.WriteStatus())

	var got Status
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.False(t, got.Time.IsZero())
}

func TestWriteStatus_BadPath(t *testing.T) {
	s := NewService(Dependencies{
		Path:   filepath.Join(t.TempDir(), "missing", "skip_status.json"),
		Status: func() Status { return Status{} },
	})
	assert.Error(t, s.WriteStatus())
}

func TestStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip_status.json")
	var calls atomic.Int32
	s := NewService(Dependencies{
		Path:     path,
		Interval: 5 * time.Millisecond,
		Status: func() Status {
			calls.Add(1)
			return Status{Plugin: "p"}
		},
	})

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.FileExists(t, path)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}
