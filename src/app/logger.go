package app

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// InitLogger builds the root console logger. Unknown level strings fall back
// to info.
func InitLogger(levelStr string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "ctfpad").
		Logger()
}
