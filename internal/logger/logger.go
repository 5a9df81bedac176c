// internal/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Pretty selects the human-readable
// console writer; otherwise logs are JSON lines.
func Init(level string, pretty bool) {
	lvl, ok := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	log.Logger = New(os.Stderr, lvl, pretty)

	if !ok {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
	}
}

// New builds a logger writing to w with caller information attached.
func New(w io.Writer, lvl zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
}

// ParseLevel maps a level name to a zerolog level. Empty or unknown names
// fall back to info; ok is false only for names zerolog does not know.
func ParseLevel(level string) (zerolog.Level, bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	if lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, true
	}
	return lvl, true
}
