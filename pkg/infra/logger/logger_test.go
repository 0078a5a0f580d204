package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, logrus.ErrorLevel, parseLevel(""))

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
}

func TestAsyncConsoleHook_DrainsOnClose(t *testing.T) {
	out := &syncBuffer{}
	hook := NewAsyncConsoleHook(out, 16)

	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	l.SetFormatter(&logrus.JSONFormatter{})
	l.AddHook(hook)

	l.WithField("ip", "203.0.113.7").Info("redirect decided")
	hook.Close()
	hook.Close()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &entry))
	assert.Equal(t, "redirect decided", entry["msg"])
	assert.Equal(t, "203.0.113.7", entry["ip"])
}

func TestAsyncFileWriter_FlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewAsyncFileWriter(path, 1024)
	require.NoError(t, err)

	n, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = w.Write([]byte("second\n"))
	w.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestNew_FileSink(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	l, err := New(Options{Level: "info", File: "logs/trustcloak.log"})
	require.NoError(t, err)
	l.Info("started")
	l.Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "trustcloak.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
}
