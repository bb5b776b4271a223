// Package input turns configured key names into edge-triggered actions.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for a key name that is not a Windows virtual key.
var ErrUnknownKey = errors.New("unknown virtual key")

// Key is a Windows virtual-key code.
type Key uint8

var keyNames = map[string]Key{
	"VK_LBUTTON":  0x01,
	"VK_RBUTTON":  0x02,
	"VK_MBUTTON":  0x04,
	"VK_XBUTTON1": 0x05,
	"VK_XBUTTON2": 0x06,
	"VK_BACK":     0x08,
	"VK_TAB":      0x09,
	"VK_RETURN":   0x0D,
	"VK_SHIFT":    0x10,
	"VK_CONTROL":  0x11,
	"VK_MENU":     0x12,
	"VK_PAUSE":    0x13,
	"VK_CAPITAL":  0x14,
	"VK_ESCAPE":   0x1B,
	"VK_SPACE":    0x20,
	"VK_PRIOR":    0x21,
	"VK_NEXT":     0x22,
	"VK_END":      0x23,
	"VK_HOME":     0x24,
	"VK_LEFT":     0x25,
	"VK_UP":       0x26,
	"VK_RIGHT":    0x27,
	"VK_DOWN":     0x28,
	"VK_INSERT":   0x2D,
	"VK_DELETE":   0x2E,
	"VK_LWIN":     0x5B,
	"VK_RWIN":     0x5C,
	"VK_NUMPAD0":  0x60,
	"VK_NUMPAD1":  0x61,
	"VK_NUMPAD2":  0x62,
	"VK_NUMPAD3":  0x63,
	"VK_NUMPAD4":  0x64,
	"VK_NUMPAD5":  0x65,
	"VK_NUMPAD6":  0x66,
	"VK_NUMPAD7":  0x67,
	"VK_NUMPAD8":  0x68,
	"VK_NUMPAD9":  0x69,
	"VK_MULTIPLY": 0x6A,
	"VK_ADD":      0x6B,
	"VK_SUBTRACT": 0x6D,
	"VK_DECIMAL":  0x6E,
	"VK_DIVIDE":   0x6F,
	"VK_LSHIFT":   0xA0,
	"VK_RSHIFT":   0xA1,
	"VK_LCONTROL": 0xA2,
	"VK_RCONTROL": 0xA3,
	"VK_LMENU":    0xA4,
	"VK_RMENU":    0xA5,
}

// Codes are unique, so the reverse lookup is exact.
var keyCodes = map[Key]string{}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		keyNames["VK_"+string(c)] = Key(c)
	}
	for c := '0'; c <= '9'; c++ {
		keyNames["VK_"+string(c)] = Key(c)
	}
	for i := 1; i <= 24; i++ {
		keyNames[fmt.Sprintf("VK_F%d", i)] = Key(0x70 + i - 1)
	}
	for name, code := range keyNames {
		keyCodes[code] = name
	}
}

// ParseKey resolves a name such as "VK_F9" or "vk_control".
func ParseKey(name string) (Key, error) {
	k, ok := keyNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// ParseCombo resolves every name of a key combination. An empty list is a
// combination that never fires.
func ParseCombo(names []string) (Combo, error) {
	combo := make(Combo, 0, len(names))
	var errs []error
	for _, n := range names {
		k, err := ParseKey(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		combo = append(combo, k)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return combo, nil
}

func (k Key) String() string {
	if name, ok := keyCodes[k]; ok {
		return name
	}
	return fmt.Sprintf("VK_%#02X", uint8(k))
}

// Combo is a set of keys that must be held together.
type Combo []Key

func (c Combo) String() string {
	parts := make([]string, len(c))
	for i, k := range c {
		parts[i] = k.String()
	}
	return strings.Join(parts, "+")
}
