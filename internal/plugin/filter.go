package plugin

import (
	"fmt"

	"github.com/skiprunback/extension/internal/instrument"
)

// Comparison is an unsigned comparison between a register value and a constant.
type Comparison uint8

const (
	Equal Comparison = iota
	NotEqual
	GreaterThan
	LessThan
)

// Persisted names, kept short for hand-written plugin files.
var comparisonNames = map[Comparison]string{
	Equal:       "Equal",
	NotEqual:    "NEqual",
	GreaterThan: "Gt",
	LessThan:    "Lt",
}

func (c Comparison) String() string {
	if name, ok := comparisonNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Comparison(%d)", uint8(c))
}

// Apply evaluates v <c> to.
func (c Comparison) Apply(v, to uint64) bool {
	switch c {
	case Equal:
		return v == to
	case NotEqual:
		return v != to
	case GreaterThan:
		return v > to
	case LessThan:
		return v < to
	default:
		return false
	}
}

func (c Comparison) MarshalText() ([]byte, error) {
	name, ok := comparisonNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid comparison %d", uint8(c))
	}
	return []byte(name), nil
}

func (c *Comparison) UnmarshalText(text []byte) error {
	for cmp, name := range comparisonNames {
		if name == string(text) {
			*c = cmp
			return nil
		}
	}
	return fmt.Errorf("unknown comparison %q", text)
}

// Filter gates pointer updates on the value of a second register.
type Filter struct {
	Compare    instrument.Register `json:"compare"`
	Comparison Comparison          `json:"comparison"`
	CompareTo  uint64              `json:"compare_to"`
}

// Matches reports whether a hit with the given registers may update the pointer.
func (f Filter) Matches(regs instrument.Registers) bool {
	return f.Comparison.Apply(regs.Value(f.Compare), f.CompareTo)
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %#x", f.Compare, f.Comparison, f.CompareTo)
}
