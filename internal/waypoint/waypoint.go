// Package waypoint persists saved player positions between game sessions.
package waypoint

import (
	"errors"

	"github.com/skiprunback/extension/pkg/core"
)

// ErrUnknownBackend is returned by New for an unsupported storage type.
var ErrUnknownBackend = errors.New("unknown waypoint storage type")

// Store keeps the most recent waypoint per plugin.
type Store interface {
	// Latest returns the most recent waypoint recorded for plugin.
	Latest(plugin string) (core.Coordinates, bool, error)
	Record(plugin string, c core.Coordinates) error
	Close() error
}
