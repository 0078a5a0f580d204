package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir           = "logs"
	fileBufferSize   = 32 * 1024
	consoleQueueSize = 4096
)

type Options struct {
	// Level is a logrus level name; empty falls back to LOG_LEVEL, then info.
	Level string
	// File is a path under logs/. Empty disables the file sink.
	File string
	// Console mirrors every entry to stdout.
	Console bool
}

// Logger bundles the configured logrus logger with the sinks that need
// flushing on shutdown.
type Logger struct {
	*logrus.Logger
	closers []func()
}

func New(opts Options) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	l.SetLevel(parseLevel(opts.Level))

	out := &Logger{Logger: l}
	l.SetOutput(io.Discard)

	if opts.File != "" {
		path := filepath.Clean(opts.File)
		if !strings.HasPrefix(path, logDir+string(filepath.Separator)) {
			path = filepath.Join(logDir, filepath.Base(path))
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, err
		}
		fw, err := NewAsyncFileWriter(path, fileBufferSize)
		if err != nil {
			return nil, err
		}
		l.SetOutput(fw)
		out.closers = append(out.closers, fw.Close)
	}

	if opts.Console || opts.File == "" {
		hook := NewAsyncConsoleHook(os.Stdout, consoleQueueSize)
		l.AddHook(hook)
		out.closers = append(out.closers, hook.Close)
	}
	return out, nil
}

// Close drains pending entries.
func (l *Logger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
