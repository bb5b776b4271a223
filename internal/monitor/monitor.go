// Package monitor periodically writes a status snapshot of the running
// extension to a file, so plugin authors can watch the intercept work.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/pkg/core"
)

// Status is one snapshot.
type Status struct {
	Time      time.Time              `json:"time"`
	Plugin    string                 `json:"plugin"`
	Pointer   string                 `json:"pointer,omitempty"`
	Intercept *plugin.InterceptStats `json:"intercept,omitempty"`
	Waypoint  *core.Coordinates      `json:"waypoint,omitempty"`
	Position  *core.Coordinates      `json:"position,omitempty"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	// Status produces the current snapshot.
	Status   func() Status
	Path     string
	Interval time.Duration
	Logger   *slog.Logger
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// WriteStatus replaces the status file with a fresh snapshot.
func (s *Service) WriteStatus() error {
	st := s.deps.Status()
	if st.Time.IsZero() {
		st.Time = time.Now().UTC()
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.deps.Path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor", "path", s.deps.Path, "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		failing := false
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Log the first failure of a streak only.
				if err := s.WriteStatus(); err != nil {
					if !failing {
						logger.Error("Error writing status file", "error", err)
					}
					failing = true
				} else {
					failing = false
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
