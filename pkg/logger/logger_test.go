package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("写入文件并替换全局Logger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		log, err := New(Options{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)

		zap.L().Info("hello", zap.String("k", "v"))
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Contains(t, string(data), `"k":"v"`)
	})

	t.Run("无效级别返回错误", func(t *testing.T) {
		_, err := New(Options{Level: "verbose"})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	l, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l)

	l, err = parseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l)
}
