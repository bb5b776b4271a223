package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/pkg/core"
)

// Identifiers decide whether a plugin applies to the running game.
// Either expected name on its own is enough.
type Identifiers struct {
	PluginName      string `json:"plugin_name"`
	ExpectedModule  string `json:"expected_module,omitempty"`
	ExpectedExeName string `json:"expected_exe_name,omitempty"`
}

// Offsets are byte displacements from the discovered base to each coordinate.
type Offsets struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// PositionSource is one of InterceptConfig, AbsolutePointer or RelativePointer.
type PositionSource interface {
	isPositionSource()
}

// InterceptConfig discovers the base address by capturing Register whenever the
// instruction matching Signature executes.
type InterceptConfig struct {
	Signature string              `json:"intercept_signature"`
	Register  instrument.Register `json:"register"`
	Filter    *Filter             `json:"filter"`
}

// AbsolutePointer is a fixed base address.
type AbsolutePointer core.Address

// RelativePointer is "module.exe+1A2B": a hex offset from a module's base address.
type RelativePointer string

func (InterceptConfig) isPositionSource() {}
func (AbsolutePointer) isPositionSource() {}
func (RelativePointer) isPositionSource() {}

func (c InterceptConfig) equal(o InterceptConfig) bool {
	if c.Signature != o.Signature || c.Register != o.Register {
		return false
	}
	if c.Filter == nil || o.Filter == nil {
		return c.Filter == nil && o.Filter == nil
	}
	return *c.Filter == *o.Filter
}

func (r RelativePointer) split() (string, string, error) {
	module, offset, ok := strings.Cut(string(r), "+")
	if !ok || strings.TrimSpace(module) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRelativePointer, string(r))
	}
	return strings.TrimSpace(module), strings.TrimSpace(offset), nil
}

// Module returns the module name part.
func (r RelativePointer) Module() (string, error) {
	module, _, err := r.split()
	return module, err
}

// Offset returns the hex offset part.
func (r RelativePointer) Offset() (uint64, error) {
	_, offset, err := r.split()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(offset, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidRelativePointer, string(r), err)
	}
	return v, nil
}

// Config is the full declarative description of one game's hook.
type Config struct {
	Identifiers    Identifiers    `json:"identifiers"`
	Position       PositionSource `json:"position"`
	PointerOffsets Offsets        `json:"pointer_offsets"`
}

// DefaultConfig is the example written for plugin authors.
func DefaultConfig() Config {
	return Config{
		Identifiers: Identifiers{
			PluginName:      "Generic Skip Sekiro Example",
			ExpectedModule:  "sekiro.exe",
			ExpectedExeName: "sekiro.exe",
		},
		Position: InterceptConfig{
			Signature: "0F 28 81 80 00 00 00 4D",
			Register:  instrument.RCX,
		},
		PointerOffsets: Offsets{X: 0x80, Y: 0x84, Z: 0x88},
	}
}

// Equal reports whether two configs describe the same hook.
func (c Config) Equal(o Config) bool {
	if c.Identifiers != o.Identifiers || c.PointerOffsets != o.PointerOffsets {
		return false
	}
	return positionEqual(c.Position, o.Position)
}

func positionEqual(a, b PositionSource) bool {
	switch a := a.(type) {
	case InterceptConfig:
		b, ok := b.(InterceptConfig)
		return ok && a.equal(b)
	case AbsolutePointer:
		b, ok := b.(AbsolutePointer)
		return ok && a == b
	case RelativePointer:
		b, ok := b.(RelativePointer)
		return ok && a == b
	case nil:
		return b == nil
	default:
		return false
	}
}

// Validate checks everything that would otherwise only fail once the plugin is started.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Identifiers.PluginName) == "" {
		errs = append(errs, errors.New("identifiers.plugin_name is empty"))
	}
	if c.Identifiers.ExpectedModule == "" && c.Identifiers.ExpectedExeName == "" {
		errs = append(errs, errors.New("identifiers: neither expected_module nor expected_exe_name is set"))
	}

	switch p := c.Position.(type) {
	case InterceptConfig:
		if _, err := instrument.ParseSignature(p.Signature); err != nil {
			errs = append(errs, fmt.Errorf("position.intercept_signature: %w", err))
		}
		if !p.Register.Valid() {
			errs = append(errs, fmt.Errorf("position.register: invalid register %s", p.Register))
		}
		if p.Filter != nil {
			if !p.Filter.Compare.Valid() {
				errs = append(errs, fmt.Errorf("position.filter.compare: invalid register %s", p.Filter.Compare))
			}
			if _, ok := comparisonNames[p.Filter.Comparison]; !ok {
				errs = append(errs, fmt.Errorf("position.filter.comparison: invalid comparison %s", p.Filter.Comparison))
			}
		}
	case AbsolutePointer:
		if core.Address(p).IsNull() {
			errs = append(errs, fmt.Errorf("position: %w", ErrNullPointer))
		}
	case RelativePointer:
		if _, err := p.Offset(); err != nil {
			errs = append(errs, fmt.Errorf("position: %w", err))
		}
	case nil:
		errs = append(errs, errors.New("position is missing"))
	}

	return errors.Join(errs...)
}

type configJSON struct {
	Identifiers    Identifiers     `json:"identifiers"`
	Position       json.RawMessage `json:"position"`
	PointerOffsets Offsets         `json:"pointer_offsets"`
}

// Persisted position layout: {"InterceptPtr": {...}} or
// {"AbsolutePtr": {"Absolute": 123}} or {"AbsolutePtr": {"Relative": "game.exe+1A2B"}}.
type positionJSON struct {
	InterceptPtr *InterceptConfig `json:"InterceptPtr,omitempty"`
	AbsolutePtr  *pointerJSON     `json:"AbsolutePtr,omitempty"`
}

type pointerJSON struct {
	Absolute *uint64 `json:"Absolute,omitempty"`
	Relative *string `json:"Relative,omitempty"`
}

func (c Config) MarshalJSON() ([]byte, error) {
	var pos positionJSON
	switch p := c.Position.(type) {
	case InterceptConfig:
		pos.InterceptPtr = &p
	case AbsolutePointer:
		v := uint64(p)
		pos.AbsolutePtr = &pointerJSON{Absolute: &v}
	case RelativePointer:
		s := string(p)
		pos.AbsolutePtr = &pointerJSON{Relative: &s}
	default:
		return nil, fmt.Errorf("unknown position source %T", c.Position)
	}

	raw, err := json.Marshal(pos)
	if err != nil {
		return nil, err
	}
	return json.Marshal(configJSON{
		Identifiers:    c.Identifiers,
		Position:       raw,
		PointerOffsets: c.PointerOffsets,
	})
}

// Decoding targets. Pointer fields tell a missing key apart from a zero value.
type configFields struct {
	Identifiers    *Identifiers    `json:"identifiers"`
	Position       json.RawMessage `json:"position"`
	PointerOffsets *Offsets        `json:"pointer_offsets"`
}

type identifierFields struct {
	PluginName      *string `json:"plugin_name"`
	ExpectedModule  *string `json:"expected_module"`
	ExpectedExeName *string `json:"expected_exe_name"`
}

type offsetFields struct {
	X *int64 `json:"x"`
	Y *int64 `json:"y"`
	Z *int64 `json:"z"`
}

type interceptFields struct {
	Signature *string              `json:"intercept_signature"`
	Register  *instrument.Register `json:"register"`
	Filter    *Filter              `json:"filter"`
}

type filterFields struct {
	Compare    *instrument.Register `json:"compare"`
	Comparison *Comparison          `json:"comparison"`
	CompareTo  *uint64              `json:"compare_to"`
}

// missingFields names the keys whose value pointer is nil.
func missingFields(fields map[string]bool) error {
	var names []string
	for name, present := range fields {
		if !present {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return fmt.Errorf("missing field %s", strings.Join(names, ", "))
}

func (i *Identifiers) UnmarshalJSON(data []byte) error {
	var raw identifierFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := missingFields(map[string]bool{"plugin_name": raw.PluginName != nil}); err != nil {
		return err
	}
	*i = Identifiers{PluginName: *raw.PluginName}
	if raw.ExpectedModule != nil {
		i.ExpectedModule = *raw.ExpectedModule
	}
	if raw.ExpectedExeName != nil {
		i.ExpectedExeName = *raw.ExpectedExeName
	}
	return nil
}

func (o *Offsets) UnmarshalJSON(data []byte) error {
	var raw offsetFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := missingFields(map[string]bool{
		"x": raw.X != nil,
		"y": raw.Y != nil,
		"z": raw.Z != nil,
	}); err != nil {
		return err
	}
	*o = Offsets{X: *raw.X, Y: *raw.Y, Z: *raw.Z}
	return nil
}

func (c *InterceptConfig) UnmarshalJSON(data []byte) error {
	var raw interceptFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := missingFields(map[string]bool{
		"intercept_signature": raw.Signature != nil,
		"register":            raw.Register != nil,
	}); err != nil {
		return err
	}
	*c = InterceptConfig{Signature: *raw.Signature, Register: *raw.Register, Filter: raw.Filter}
	return nil
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw filterFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := missingFields(map[string]bool{
		"compare":    raw.Compare != nil,
		"comparison": raw.Comparison != nil,
		"compare_to": raw.CompareTo != nil,
	}); err != nil {
		return err
	}
	*f = Filter{Compare: *raw.Compare, Comparison: *raw.Comparison, CompareTo: *raw.CompareTo}
	return nil
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := missingFields(map[string]bool{
		"identifiers":     raw.Identifiers != nil,
		"pointer_offsets": raw.PointerOffsets != nil,
	}); err != nil {
		return err
	}
	if len(raw.Position) == 0 || string(raw.Position) == "null" {
		return errors.New("position is missing")
	}

	var pos positionJSON
	if err := json.Unmarshal(raw.Position, &pos); err != nil {
		return fmt.Errorf("position: %w", err)
	}

	var source PositionSource
	switch {
	case pos.InterceptPtr != nil && pos.AbsolutePtr != nil:
		return errors.New("position: both InterceptPtr and AbsolutePtr set")
	case pos.InterceptPtr != nil:
		source = *pos.InterceptPtr
	case pos.AbsolutePtr != nil:
		switch ptr := pos.AbsolutePtr; {
		case ptr.Absolute != nil && ptr.Relative == nil:
			source = AbsolutePointer(*ptr.Absolute)
		case ptr.Relative != nil && ptr.Absolute == nil:
			source = RelativePointer(*ptr.Relative)
		default:
			return errors.New("position.AbsolutePtr: expected exactly one of Absolute or Relative")
		}
	default:
		return errors.New("position: expected InterceptPtr or AbsolutePtr")
	}

	*c = Config{
		Identifiers:    *raw.Identifiers,
		Position:       source,
		PointerOffsets: *raw.PointerOffsets,
	}
	return nil
}

// LoadFile reads a plugin config. Only the structure is checked here; values
// such as the signature are checked when the plugin starts, or by Validate.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
	}
	return cfg, nil
}

// SaveFile writes cfg as indented JSON.
func SaveFile(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plugin config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing plugin config: %w", err)
	}
	return nil
}
