package process

import "fmt"

// Static is a fixed process description. The first module is the base module.
type Static struct {
	Executable string
	Loaded     []Module
}

func (s Static) BaseModule() (Module, error) {
	if len(s.Loaded) == 0 {
		return Module{}, fmt.Errorf("%w: no base module", ErrModuleNotFound)
	}
	return s.Loaded[0], nil
}

func (s Static) FindModule(name string) (Module, error) {
	return findIn(s.Loaded, name)
}

func (s Static) Modules() ([]Module, error) {
	return s.Loaded, nil
}

func (s Static) ExecutablePath() (string, error) {
	return s.Executable, nil
}
