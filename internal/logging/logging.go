// Package logging builds the zerolog logger shared by the server
// binaries. Output always goes to the console; a plain-text log file
// and a Graylog GELF endpoint can be added through Options.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Options selects the sinks and verbosity for New.
type Options struct {
	Level          string
	FilePath       string
	GraylogAddress string
}

// New sets the global zerolog level and returns a logger writing to
// every sink that could be opened. Sinks that fail to open are
// reported on the console and skipped.
func New(opts Options) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(opts.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	bootstrap := zerolog.New(console).With().Timestamp().Logger()

	writers := []io.Writer{console}

	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			bootstrap.Error().Err(err).Str("path", opts.FilePath).
				Msg("failed to create/open log file")
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        file,
				TimeFormat: time.RFC3339,
				NoColor:    true,
			})
		}
	}

	if opts.GraylogAddress != "" {
		graylog, err := gelf.NewWriter(opts.GraylogAddress)
		if err != nil {
			bootstrap.Error().Err(err).Str("address", opts.GraylogAddress).
				Msg("failed to connect graylog writer")
		} else {
			writers = append(writers, graylog)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
