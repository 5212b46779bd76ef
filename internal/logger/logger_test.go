package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 这些测试修改全局 logger，不并行执行

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: &buf}))

	Info(context.Background()).Msgf("对局 %s 已创建", "abc")
	Debug(context.Background()).Msg("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "对局 abc 已创建", line["message"])
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Output: &buf}))

	ctx := WithSession(context.Background(), "game-1")
	Warn(ctx).Msg("check")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "game-1", line["session"])
	assert.Equal(t, "warn", line["level"])
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	require.NoError(t, Init(Config{Level: "info", File: path}))
	defer Close()

	L().Error().Msgf("boom %d", 1)
	LogPanic("panic value")

	assert.Equal(t, path, GetLogPath())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom 1")
	assert.Contains(t, string(data), "[PANIC] panic value")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, FromContext(context.WithValue(context.Background(), LoggerKey, "not a logger")))
}
