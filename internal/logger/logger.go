package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var ProgramLevel = new(slog.LevelVar)

// SetupLogger initialiserer loggeren med JSON-format og standard nivå.
// Loggen går til stderr, stdout er forbeholdt JSON-output.
// Er logFile satt skrives loggen i tillegg til en roterende fil.
func SetupLogger(logFile string) io.Closer {
	ProgramLevel.Set(slog.LevelInfo)

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
		}
		out = io.MultiWriter(os.Stderr, rotating)
		closer = rotating
	}

	SetupLoggerWithWriter(out)
	return closer
}

func SetupLoggerWithWriter(w io.Writer) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ProgramLevel,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

// SetDebug setter loggnivået til Debug hvis debug er true.
func SetDebug(debug bool) {
	if debug {
		ProgramLevel.Set(slog.LevelDebug)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
