package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/config"
	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init initializes the global logger based on application configuration.
// Log output goes to stdout and, when a run folder is available, to an
// info-level log file inside it.
func Init(cfg *config.AppConfig, runFolder string) {
	out := io.Writer(os.Stdout)
	if runFolder != "" {
		logFile, err := os.OpenFile(filepath.Join(runFolder, "info.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			Log.Warnf("Could not open log file in %s, logging to stdout only: %v", runFolder, err)
		} else {
			out = io.MultiWriter(os.Stdout, logFile)
		}
	}
	Log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	if cfg.Production() {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// RunFolder creates and returns the dated log folder for the current run:
// logs/YYYY/YYYY MM/YYYY MM DD/YYYY-MM-DD HH MM.
func RunFolder(base string) (string, error) {
	now := time.Now()
	path := filepath.Join(
		base,
		now.Format("2006"),
		now.Format("2006 01"),
		now.Format("2006 01 02"),
		now.Format("2006-01-02 15 04"),
	)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}
