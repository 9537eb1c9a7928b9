package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var colors = map[string]string{
	"trace": "\033[36m", // Cyan
	"debug": "\033[33m", // Yellow
	"info":  "\033[34m", // Blue
	"warn":  "\033[33m", // Yellow
	"error": "\033[31m", // Red
	"fatal": "\033[35m", // Magenta
	"panic": "\033[35m", // Magenta
}

// Init initializes the global logger. Pretty selects colored console output,
// otherwise one JSON object is written per line.
func Init(pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = New(os.Stdout, pretty)
}

// New returns a logger writing to out.
func New(out io.Writer, pretty bool) zerolog.Logger {
	if !pretty {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:     out,
		NoColor: false,
		FormatLevel: func(i interface{}) string {
			level, ok := i.(string)
			if !ok {
				return "???"
			}
			color := colors[level]
			if color == "" {
				color = "\033[37m" // Default to white
			}
			return color + strings.ToUpper(level) + "\033[0m"
		},
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
