package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestCommandLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(CommandLogger)
	}{
		{"debug", func(l CommandLogger) { l.Debug("Command dispatched", "command", ":WAYPOINT:SAVE:", "queued", 2) }},
		{"info", func(l CommandLogger) { l.Info("Command dispatched", "command", ":WAYPOINT:SAVE:", "queued", 2) }},
		{"error", func(l CommandLogger) { l.Error("Command dispatched", "command", ":WAYPOINT:SAVE:", "queued", 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewCommandLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "Command dispatched", entry["message"])
			assert.Equal(t, ":WAYPOINT:SAVE:", entry["command"])
			assert.Equal(t, float64(2), entry["queued"])
		})
	}
}

func TestCommandLogger_TypedValues(t *testing.T) {
	var buf bytes.Buffer
	NewCommandLogger(zerolog.New(&buf)).Error("Teleport failed",
		"error", errors.New("pointer not initialised"),
		"pointer", core.Address(0x7FF61000),
		"position", core.Coordinates{X: 1, Y: 2, Z: 3},
		"stats", map[string]int{"hits": 4},
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "pointer not initialised", entry["error"])
	assert.Equal(t, "0X7FF61000", entry["pointer"])
	assert.Equal(t, "(1.000, 2.000, 3.000)", entry["position"])
	assert.Equal(t, map[string]any{"hits": float64(4)}, entry["stats"])
}

func TestCommandLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	NewCommandLogger(zerolog.New(&buf)).Info("odd", "key1", "value1", 7, "ignored", "trailing")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "value1", entry["key1"])
	assert.Equal(t, "odd", entry["message"])
	assert.NotContains(t, entry, "trailing")
	assert.Len(t, entry, 3)
}

func TestCommandLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewCommandLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden", "command", ":CONFIG:RELOAD:")
	assert.Empty(t, buf.String())
}

func TestNewZerolog(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := NewZerolog(&buf, "trace", "probe")
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())

	l.Trace().Str("new", "0X1000").Msg("Updated player pointer")
	assert.Contains(t, buf.String(), "Updated player pointer")
	assert.Contains(t, buf.String(), "component=probe")

	buf.Reset()
	l = NewZerolog(&buf, "info", "probe")
	l.Trace().Msg("hidden")
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	nop := NewZerolog(nil, "trace", "probe")
	assert.Equal(t, zerolog.Disabled, nop.GetLevel())
}
