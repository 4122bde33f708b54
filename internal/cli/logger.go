package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jaminalder/tictactoe-history/internal/config"
	"github.com/rs/zerolog"
)

// newLogger builds the process logger from the log section of the config.
func newLogger(conf config.Log, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", conf.Level, err)
	}

	var out io.Writer
	switch conf.Format {
	case "json":
		out = w
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", conf.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
