//go:build !windows && !linux

package process

// Current returns an introspector that fails every query.
func Current() Introspector {
	return unsupported{}
}

type unsupported struct{}

func (unsupported) BaseModule() (Module, error)       { return Module{}, ErrUnsupported }
func (unsupported) FindModule(string) (Module, error) { return Module{}, ErrUnsupported }
func (unsupported) Modules() ([]Module, error)        { return nil, ErrUnsupported }
func (unsupported) ExecutablePath() (string, error)   { return "", ErrUnsupported }
