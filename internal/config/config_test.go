package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  shutdown_timeout: 30

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1
  enabled: true
  session_ttl_hours: 48

log:
  level: debug
  format: json
  file: /tmp/mahjong.log

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  rate_limit:
    max_per_second: 5
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50

game:
  starting_score: 30000
  default_rules:
    kiriage: true
    pao: true
    target_score: 40000
    uma: [20, 10, -10, -20]
    length: tonpuu
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeoutDuration())

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 48*time.Hour, cfg.Redis.SessionTTL())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/mahjong.log", cfg.Log.File)

	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, 5, cfg.Security.RateLimit.MaxPerSecond)
	assert.Equal(t, 2*time.Minute, cfg.Security.RateLimit.BanDurationTime())
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)

	assert.Equal(t, 30000, cfg.Game.StartingScore)
	r := cfg.Game.DefaultRules
	assert.True(t, r.Kiriage)
	assert.True(t, r.Pao)
	assert.Equal(t, 40000, r.TargetScore)
	assert.Equal(t, [4]int{20, 10, -10, -20}, r.Uma)
	assert.Equal(t, rules.Tonpuu, r.Length)
	// 未填写的规则项保持默认
	assert.True(t, r.KazoeYakuman)
	assert.True(t, r.CompositeYakuman)
	assert.True(t, r.Bankruptcy)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "server:\n  port: 0\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Redis, cfg.Redis)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.Game, cfg.Game)
	assert.Equal(t, def.Security, cfg.Security)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1780, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.Redis.SessionTTL())
	assert.Equal(t, rules.Default(), cfg.Game.DefaultRules)
	assert.NoError(t, cfg.Game.DefaultRules.Validate(cfg.Game.StartingScore))
}

// 以下测试修改环境变量，不能并行

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisAddr, "cache:6380")
	t.Setenv(EnvRedisPassword, "hunter2")
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, "redis:\n  addr: redis:6379\n"))
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	_, err := Load(writeConfig(t, "server:\n  host: localhost\n"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvLogLevel+"=error\n"), 0o600))
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "error", os.Getenv(EnvLogLevel))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "error", cfg.Log.Level)

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
