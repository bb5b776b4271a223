package process

import (
	"strings"
	"testing"

	"github.com/skiprunback/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_FindModule_CaseInsensitive(t *testing.T) {
	p := Static{
		Executable: `C:\Games\Sekiro\sekiro.exe`,
		Loaded: []Module{
			{Name: "sekiro.exe", Base: 0x140000000, Size: 0x4000000},
			{Name: "KERNEL32.DLL", Base: 0x7FF800000000, Size: 0x100000},
		},
	}

	m, err := p.FindModule("kernel32.dll")
	require.NoError(t, err)
	assert.Equal(t, core.Address(0x7FF800000000), m.Base)

	_, err = p.FindModule("GameAssembly.dll")
	assert.ErrorIs(t, err, ErrModuleNotFound)

	base, err := p.BaseModule()
	require.NoError(t, err)
	assert.Equal(t, "sekiro.exe", base.Name)
}

func TestExecutableName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`C:\Program Files\Lies of P\LOP.exe`, "LOP.exe"},
		{"/opt/games/nioh2.exe", "nioh2.exe"},
		{"WoLong.exe", "WoLong.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := ExecutableName(Static{Executable: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatic_NoBaseModule(t *testing.T) {
	_, err := Static{}.BaseModule()
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestParseMaps(t *testing.T) {
	maps := `55d0c0a00000-55d0c0a02000 r--p 00000000 08:01 1311 /usr/bin/game
55d0c0a02000-55d0c0a09000 r-xp 00002000 08:01 1311 /usr/bin/game
55d0c0a09000-55d0c0a0c000 r--p 00009000 08:01 1311 /usr/bin/game
55d0c1e6b000-55d0c1e8c000 rw-p 00000000 00:00 0    [heap]
7f2a4c000000-7f2a4c028000 r--p 00000000 08:01 2244 /usr/lib/libc.so.6
7f2a4c028000-7f2a4c1bd000 r-xp 00028000 08:01 2244 /usr/lib/libc.so.6
7ffd6e9f4000-7ffd6ea15000 rw-p 00000000 00:00 0    [stack]
7f2a4d000000-7f2a4d001000 r--p 00000000 08:01 3000 /home/me/My Games/mod lib.so
`
	modules, err := ParseMaps(strings.NewReader(maps))
	require.NoError(t, err)
	require.Len(t, modules, 3)

	assert.Equal(t, Module{
		Name: "game",
		Path: "/usr/bin/game",
		Base: 0x55d0c0a00000,
		Size: 0x55d0c0a0c000 - 0x55d0c0a00000,
	}, modules[0])
	assert.Equal(t, "libc.so.6", modules[1].Name)
	assert.Equal(t, uint64(0x1bd000), modules[1].Size)
	assert.Equal(t, "/home/me/My Games/mod lib.so", modules[2].Path)
}

func TestParseMaps_StopsAtGuardAndGap(t *testing.T) {
	maps := `7f10a0000000-7f10a0002000 r--p 00000000 08:01 77 /usr/lib/libgame.so
7f10a0002000-7f10a0010000 r-xp 00002000 08:01 77 /usr/lib/libgame.so
7f10a0010000-7f10a0200000 ---p 00010000 08:01 77 /usr/lib/libgame.so
7f10a0200000-7f10a0204000 r--p 00010000 08:01 77 /usr/lib/libgame.so
7f10b0000000-7f10b0001000 r--p 00000000 08:01 78 /usr/lib/libaudio.so
7f10b0004000-7f10b0008000 r-xp 00001000 08:01 78 /usr/lib/libaudio.so
7f10c0000000-7f10c0001000 ---p 00000000 08:01 79 /usr/lib/libguard.so
7f10c0001000-7f10c0002000 r--p 00001000 08:01 79 /usr/lib/libguard.so
`
	modules, err := ParseMaps(strings.NewReader(maps))
	require.NoError(t, err)
	require.Len(t, modules, 3)

	assert.Equal(t, core.Address(0x7f10a0000000), modules[0].Base)
	assert.Equal(t, uint64(0x10000), modules[0].Size, "guard mapping ends the image")

	assert.Equal(t, core.Address(0x7f10b0000000), modules[1].Base)
	assert.Equal(t, uint64(0x1000), modules[1].Size, "hole ends the image")

	assert.Equal(t, core.Address(0x7f10c0000000), modules[2].Base)
	assert.Zero(t, modules[2].Size)
}

func TestParseMaps_Malformed(t *testing.T) {
	_, err := ParseMaps(strings.NewReader("zzzz r--p 0 0:0 1 /bin/x\n"))
	assert.Error(t, err)
}
