package registry

import (
	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/internal/plugin"
)

// Presets are the built-in games, in selection order.
var Presets = []plugin.Config{
	{
		Identifiers: plugin.Identifiers{
			PluginName:      "Lies of P Skip Runback",
			ExpectedModule:  "LOP-Win64-Shipping.exe",
			ExpectedExeName: "LOP.exe",
		},
		Position: plugin.InterceptConfig{
			Signature: "41 0F 10 89 C0 01 00 00 48 8D 44 24 28",
			Register:  instrument.R9,
		},
		PointerOffsets: plugin.Offsets{X: 0x1C0, Y: 0x1C4, Z: 0x1C8},
	},
	{
		Identifiers: plugin.Identifiers{
			PluginName:      "Sekiro Skip Runback",
			ExpectedModule:  "sekiro.exe",
			ExpectedExeName: "sekiro.exe",
		},
		Position: plugin.InterceptConfig{
			Signature: "0F 28 81 80 00 00 00 4D",
			Register:  instrument.RCX,
		},
		PointerOffsets: plugin.Offsets{X: 0x80, Y: 0x84, Z: 0x88},
	},
	{
		Identifiers: plugin.Identifiers{
			PluginName:      "Wo Long Fallen Dynasty Runback",
			ExpectedModule:  "WoLong.exe",
			ExpectedExeName: "WoLong.exe",
		},
		Position: plugin.InterceptConfig{
			Signature: "0F 28 80 10 02 00 00 0F 29 44",
			Register:  instrument.RAX,
		},
		PointerOffsets: plugin.Offsets{X: 0x210, Y: 0x214, Z: 0x218},
	},
	{
		Identifiers: plugin.Identifiers{
			PluginName:      "AI Limit Skip Runback",
			ExpectedModule:  "GameAssembly.dll",
			ExpectedExeName: "AI-LIMIT.exe",
		},
		Position: plugin.InterceptConfig{
			Signature: "F2 0F 11 43 28 89 4B 30 40",
			Register:  instrument.RBX,
			// The same store runs for every actor; R10 is 0xA only for non-player ones.
			Filter: &plugin.Filter{Compare: instrument.R10, Comparison: plugin.NotEqual, CompareTo: 0xA},
		},
		PointerOffsets: plugin.Offsets{X: 0x28, Y: 0x2C, Z: 0x30},
	},
	{
		Identifiers: plugin.Identifiers{
			PluginName:      "Nioh 2",
			ExpectedExeName: "nioh2.exe",
		},
		Position: plugin.InterceptConfig{
			Signature: "0F 28 80 F0 00 00 00 66 0F 7F 45 A0",
			Register:  instrument.RAX,
		},
		PointerOffsets: plugin.Offsets{X: 0xF0, Y: 0xF4, Z: 0xF8},
	},
}
