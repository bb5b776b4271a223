//go:build linux

package process

import (
	"fmt"
	"os"

	gops "github.com/shirou/gopsutil/v4/process"
)

// Current returns the introspector for this process.
func Current() Introspector {
	return linuxProcess{pid: int32(os.Getpid())}
}

type linuxProcess struct {
	pid int32
}

func (p linuxProcess) ExecutablePath() (string, error) {
	proc, err := gops.NewProcess(p.pid)
	if err != nil {
		return "", fmt.Errorf("open process %d: %w", p.pid, err)
	}
	exe, err := proc.Exe()
	if err != nil {
		return "", fmt.Errorf("read executable of %d: %w", p.pid, err)
	}
	return exe, nil
}

func (p linuxProcess) Modules() ([]Module, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, fmt.Errorf("open maps: %w", err)
	}
	defer f.Close()
	return ParseMaps(f)
}

func (p linuxProcess) BaseModule() (Module, error) {
	exe, err := p.ExecutablePath()
	if err != nil {
		return Module{}, err
	}
	modules, err := p.Modules()
	if err != nil {
		return Module{}, err
	}
	for _, m := range modules {
		if m.Path == exe {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s not mapped", ErrModuleNotFound, exe)
}

func (p linuxProcess) FindModule(name string) (Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return Module{}, err
	}
	return findIn(modules, name)
}
