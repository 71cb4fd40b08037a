package common

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide structured logger. It writes to stderr at info level
// until SetLogLevel or SetLogOutput is called.
//
// Returns:
//   - *log.Logger: the shared logger
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetLogLevel parses a level name ("debug", "info", "warn", "error", "fatal") and
// applies it to the shared logger.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - error: an error if the level name is not recognized
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetLogOutput redirects the shared logger, mostly useful in tests.
//
// Parameters:
//   - w: the destination writer
func SetLogOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// ValidateLogLevel reports whether a level name is accepted by SetLogLevel.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - error: an error if the level name is not recognized
func ValidateLogLevel(level string) error {
	_, err := log.ParseLevel(level)
	return err
}
