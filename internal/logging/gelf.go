package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// GELFSender is the part of *gelf.Writer the handler uses.
type GELFSender interface {
	WriteMessage(m *gelf.Message) error
}

// GELFHandler sends every record to Graylog as one GELF message. Attributes
// become additional fields.
type GELFHandler struct {
	sender   GELFSender
	level    slog.Leveler
	host     string
	facility string

	fields map[string]interface{}
	groups []string
	mu     *sync.Mutex
}

// DialGELF connects to a Graylog UDP input and returns a handler plus the
// writer to close on shutdown.
func DialGELF(addr, level string) (*GELFHandler, io.Closer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to graylog at %s: %w", addr, err)
	}
	return NewGELFHandler(w, parseLevel(level)), w, nil
}

// NewGELFHandler creates a handler writing to sender.
func NewGELFHandler(sender GELFSender, level slog.Leveler) *GELFHandler {
	host, _ := os.Hostname()
	return &GELFHandler{
		sender:   sender,
		level:    level,
		host:     host,
		facility: "skip-runback",
		mu:       &sync.Mutex{},
	}
}

func (h *GELFHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// syslog severities as GELF expects them
func gelfLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 3
	case l >= slog.LevelWarn:
		return 4
	case l >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}

func (h *GELFHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]interface{}, len(h.fields)+r.NumAttrs())
	for k, v := range h.fields {
		extra[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		h.addField(extra, h.groups, a)
		return true
	})

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	msg := &gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(t.UnixNano()) / float64(time.Second),
		Level:    gelfLevel(r.Level),
		Facility: h.facility,
		Extra:    extra,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sender.WriteMessage(msg)
}

// addField flattens groups into "group_key" names; GELF fields must start with '_'.
func (h *GELFHandler) addField(extra map[string]interface{}, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.addField(extra, sub, ga)
		}
		return
	}

	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "_" + key
	}

	switch a.Value.Kind() {
	case slog.KindString:
		extra["_"+key] = a.Value.String()
	case slog.KindInt64:
		extra["_"+key] = a.Value.Int64()
	case slog.KindUint64:
		extra["_"+key] = a.Value.Uint64()
	case slog.KindFloat64:
		extra["_"+key] = a.Value.Float64()
	case slog.KindBool:
		extra["_"+key] = a.Value.Bool()
	default:
		extra["_"+key] = a.Value.String()
	}
}

func (h *GELFHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = make(map[string]interface{}, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		clone.fields[k] = v
	}
	for _, a := range attrs {
		h.addField(clone.fields, h.groups, a)
	}
	return &clone
}

func (h *GELFHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}
