//go:build windows

package process

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/skiprunback/extension/pkg/core"
	"golang.org/x/sys/windows"
)

const maxModules = 1024

// Current returns the introspector for this process.
func Current() Introspector {
	return windowsProcess{}
}

type windowsProcess struct{}

func (windowsProcess) Modules() ([]Module, error) {
	self := windows.CurrentProcess()

	var handles [maxModules]windows.Handle
	var needed uint32
	if err := windows.EnumProcessModules(self, &handles[0], uint32(unsafe.Sizeof(handles[0]))*maxModules, &needed); err != nil {
		return nil, fmt.Errorf("EnumProcessModules: %w", err)
	}
	count := needed / uint32(unsafe.Sizeof(handles[0]))
	if count > maxModules {
		count = maxModules
	}

	modules := make([]Module, 0, count)
	for i := uint32(0); i < count; i++ {
		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(self, handles[i], &info, uint32(unsafe.Sizeof(info))); err != nil {
			return nil, fmt.Errorf("GetModuleInformation: %w", err)
		}

		var name [windows.MAX_PATH]uint16
		if err := windows.GetModuleFileNameEx(self, handles[i], &name[0], windows.MAX_PATH); err != nil {
			return nil, fmt.Errorf("GetModuleFileNameEx: %w", err)
		}
		path := windows.UTF16ToString(name[:])

		modules = append(modules, Module{
			Name: filepath.Base(path),
			Path: path,
			Base: core.Address(info.BaseOfDll),
			Size: uint64(info.SizeOfImage),
		})
	}
	return modules, nil
}

func (p windowsProcess) BaseModule() (Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return Module{}, err
	}
	if len(modules) == 0 {
		return Module{}, fmt.Errorf("%w: no base module", ErrModuleNotFound)
	}
	// EnumProcessModules always lists the executable first.
	return modules[0], nil
}

func (p windowsProcess) FindModule(name string) (Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return Module{}, err
	}
	return findIn(modules, name)
}

func (p windowsProcess) ExecutablePath() (string, error) {
	base, err := p.BaseModule()
	if err != nil {
		return "", err
	}
	return base.Path, nil
}
