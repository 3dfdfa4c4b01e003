package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	original := logger
	defer func() {
		logger = original
	}()

	t.Run("text format", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "warn", Format: "text", Output: "stdout"}))
		assert.Equal(t, logrus.WarnLevel, GetLogger().Level)
		_, ok := GetLogger().Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
	})

	t.Run("json format", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: "stderr"}))
		_, ok := GetLogger().Formatter.(*logrus.JSONFormatter)
		assert.True(t, ok)
		assert.Equal(t, os.Stderr, GetLogger().Out)
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "loud"}))
		assert.Equal(t, logrus.InfoLevel, GetLogger().Level)
	})

	t.Run("file output rotates through lumberjack", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "console.log")
		require.NoError(t, Init(Config{
			Level:    "error",
			Format:   "json",
			Output:   "file",
			Filename: logFile,
			MaxSize:  1,
		}))

		Error("upstream unreachable")

		_, err := os.Stat(logFile)
		assert.NoError(t, err)
	})
}

func TestComponent(t *testing.T) {
	original := logger
	defer func() {
		logger = original
	}()

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json"}))
	SetOutput(&buf)

	Component("transport").WithField("path", "/goods/shop/all").Info("request sent")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transport", entry["component"])
	assert.Equal(t, "/goods/shop/all", entry["path"])
	assert.Equal(t, "request sent", entry["msg"])
}
