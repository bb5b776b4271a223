package waypoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/skiprunback/extension/pkg/core"
)

type fileLayout struct {
	MostRecent *core.Coordinates `json:"most_recent"`
}

// JSONFile stores a single waypoint shared by every plugin, in the
// {"most_recent": {...}} file format.
type JSONFile struct {
	path string

	mu     sync.Mutex
	latest *core.Coordinates
}

// OpenJSONFile loads path if it exists. A missing file is an empty store.
func OpenJSONFile(path string) (*JSONFile, error) {
	s := &JSONFile{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading waypoints %s: %w", path, err)
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parsing waypoints %s: %w", path, err)
	}
	s.latest = layout.MostRecent
	return s, nil
}

func (s *JSONFile) Latest(string) (core.Coordinates, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return core.Coordinates{}, false, nil
	}
	return *s.latest, true, nil
}

func (s *JSONFile) Record(_ string, c core.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(fileLayout{MostRecent: &c})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing waypoints %s: %w", s.path, err)
	}
	s.latest = &c
	return nil
}

func (s *JSONFile) Close() error { return nil }

// Path returns the backing file.
func (s *JSONFile) Path() string { return s.path }
