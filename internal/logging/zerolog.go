package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func zerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewZerolog sets the zerolog global level and returns a logger writing
// plain console lines to w. A nil writer gives a disabled logger.
func NewZerolog(w io.Writer, level string, component string) zerolog.Logger {
	lvl := zerologLevel(level)
	zerolog.SetGlobalLevel(lvl)
	if w == nil {
		return zerolog.Nop()
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
}

// CommandLogger writes dispatcher messages as zerolog events. Key/value pairs
// keep their type: errors, strings and fmt.Stringer values (addresses) get
// dedicated fields, everything else is encoded as is.
type CommandLogger struct {
	log zerolog.Logger
}

func NewCommandLogger(log zerolog.Logger) CommandLogger {
	return CommandLogger{log: log}
}

func (l CommandLogger) Debug(msg string, keysAndValues ...any) {
	withPairs(l.log.Debug(), keysAndValues).Msg(msg)
}

func (l CommandLogger) Info(msg string, keysAndValues ...any) {
	withPairs(l.log.Info(), keysAndValues).Msg(msg)
}

func (l CommandLogger) Error(msg string, keysAndValues ...any) {
	withPairs(l.log.Error(), keysAndValues).Msg(msg)
}

// withPairs skips pairs without a string key and a trailing odd value.
func withPairs(e *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		case fmt.Stringer:
			e = e.Stringer(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
