package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDir      = "log"
	logFilename = "bot.log"
)

var Logger zerolog.Logger

func init() {
	// Usable default so packages can log before Init runs (tests, tools).
	Logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

// Init configures the package logger. With toFile set, entries are mirrored
// into a size-rotated file next to the working directory.
func Init(level string, toFile bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var w io.Writer = consoleWriter()
	if toFile {
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, logFilename),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = zerolog.MultiLevelWriter(consoleWriter(), fileWriter)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}
}
