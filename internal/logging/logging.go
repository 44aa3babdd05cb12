package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a human-readable console
// writer, everything else structured JSON.
func New(level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if env == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.Level(lvl).With().
		Timestamp().
		Str("service", "contact-service").
		Logger()
}
