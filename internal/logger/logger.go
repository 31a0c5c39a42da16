package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log zerolog.Logger

func Init(isDev bool) {
	InitTo(os.Stdout, isDev)
}

// InitTo is Init with an explicit destination; the CLI logs to stderr so
// its stdout stays machine readable.
func InitTo(out io.Writer, isDev bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if isDev {
		Log = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Logger()
	} else {
		Log = zerolog.New(out).With().Timestamp().Logger()
	}
}

func IsDev() bool {
	env := os.Getenv("ENV")
	return env == "" || env == "dev" || env == "development"
}
