package plugin

import "errors"

var (
	// ErrPointerNotInitialized is returned by SetCurrentCoordinates while no base address is known.
	ErrPointerNotInitialized = errors.New("pointer not initialised")
	// ErrConfigLoad is returned when the plugin file cannot be read.
	ErrConfigLoad = errors.New("plugin config load failed")
	// ErrConfigParse is returned when the plugin file is not a valid plugin config.
	ErrConfigParse = errors.New("plugin config parse failed")
	// ErrInvalidRelativePointer is returned for relative pointers not of the form "module+HEX".
	ErrInvalidRelativePointer = errors.New("invalid relative pointer syntax")
	// ErrNullPointer is returned when a static position resolves to address zero.
	ErrNullPointer = errors.New("resolved pointer is null")
)
