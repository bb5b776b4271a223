package waypoint

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/internal/config"
)

// New opens the store selected by cfg. Relative file names are taken
// relative to dir.
func New(cfg config.StorageConfig, dir string, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "json", "":
		s, err := OpenJSONFile(resolve(dir, cfg.JSON.File))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := OpenSQLite(resolve(dir, cfg.SQLite.File), cfg.SQLite.History, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Type)
	}
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
