package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. format is "json" or "text"; text uses
// zerolog's console writer.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if format == "text" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
