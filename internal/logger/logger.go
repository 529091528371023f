package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger: console output with readable
// timestamps. All components receive it by value and attach their own
// fields.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldInteger = true

	return zerolog.New(output).
		With().
		Timestamp().
		Logger()
}
