package plugin

import (
	"testing"

	"github.com/skiprunback/extension/internal/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonApply(t *testing.T) {
	tests := []struct {
		cmp  Comparison
		v    uint64
		to   uint64
		want bool
	}{
		{Equal, 10, 10, true},
		{Equal, 9, 10, false},
		{NotEqual, 10, 10, false},
		{NotEqual, 11, 10, true},
		{GreaterThan, 10, 10, false},
		{GreaterThan, 11, 10, true},
		{GreaterThan, 9, 10, false},
		{LessThan, 10, 10, false},
		{LessThan, 9, 10, true},
		{LessThan, 11, 10, false},
		// unsigned: the top bit set is a large value, not a negative one
		{GreaterThan, 1 << 63, 10, true},
		{LessThan, 1 << 63, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.cmp.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmp.Apply(tt.v, tt.to), "%d %s %d", tt.v, tt.cmp, tt.to)
		})
	}

	assert.False(t, Comparison(42).Apply(1, 1))
}

func TestComparisonText(t *testing.T) {
	for cmp, name := range map[Comparison]string{Equal: "Equal", NotEqual: "NEqual", GreaterThan: "Gt", LessThan: "Lt"} {
		text, err := cmp.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))

		var back Comparison
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, cmp, back)
	}

	var c Comparison
	assert.Error(t, c.UnmarshalText([]byte("NotEqual")))
	_, err := Comparison(9).MarshalText()
	assert.Error(t, err)
}

func TestFilterMatches(t *testing.T) {
	f := Filter{Compare: instrument.R10, Comparison: NotEqual, CompareTo: 0xA}

	assert.True(t, f.Matches(instrument.Registers{}.With(instrument.R10, 0xB)))
	assert.False(t, f.Matches(instrument.Registers{}.With(instrument.R10, 0xA)))
	// Only the compared register matters.
	assert.False(t, f.Matches(instrument.Registers{}.With(instrument.R10, 0xA).With(instrument.RBX, 0xB)))
	assert.Equal(t, "R10 NEqual 0xa", f.String())
}
