package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/palemoky/mahjong-scoreboard/internal/game/rules"
)

// 环境变量覆盖
const (
	EnvRedisAddr     = "MAHJONG_REDIS_ADDR"
	EnvRedisPassword = "MAHJONG_REDIS_PASSWORD"
	EnvPort          = "MAHJONG_PORT"
	EnvLogLevel      = "MAHJONG_LOG_LEVEL"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Security SecurityConfig `yaml:"security"`
	Game     GameConfig     `yaml:"game"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // 优雅关闭超时（秒）
}

// ShutdownTimeoutDuration 返回优雅关闭超时时长
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	Enabled         bool   `yaml:"enabled"`
	SessionTTLHours int    `yaml:"session_ttl_hours"` // 对局快照保留时长（小时）
}

// SessionTTL 返回对局快照过期时间
func (c *RedisConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console / json
	File   string `yaml:"file"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
	AllowedIPs     []string           `yaml:"allowed_ips"` // 非空时只允许这些 IP
	BlockedIPs     []string           `yaml:"blocked_ips"`
}

// MessageLimitConfig WebSocket 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// RateLimitConfig REST 请求速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 封禁时长（秒）
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// GameConfig 对局默认配置
type GameConfig struct {
	StartingScore int         `yaml:"starting_score"`
	DefaultRules  rules.Rules `yaml:"default_rules"`
}

// Load 加载配置文件，未填写的项使用默认值，再应用环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv 加载 .env 文件到环境变量，文件不存在时忽略
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            1780,
			ShutdownTimeout: 10,
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			SessionTTLHours: 7 * 24,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				MaxPerSecond: 20,
				MaxPerMinute: 300,
				BanDuration:  60,
			},
			MessageLimit: MessageLimitConfig{MaxPerSecond: 10},
		},
		Game: GameConfig{
			StartingScore: rules.DefaultStartingScore,
			DefaultRules:  rules.Default(),
		},
	}
}

// applyDefaults 处理显式写成零值的配置项
func (c *Config) applyDefaults() {
	def := Default()

	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = def.Redis.Addr
	}
	if c.Redis.SessionTTLHours <= 0 {
		c.Redis.SessionTTLHours = def.Redis.SessionTTLHours
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Security.RateLimit.MaxPerSecond <= 0 {
		c.Security.RateLimit.MaxPerSecond = def.Security.RateLimit.MaxPerSecond
	}
	if c.Security.RateLimit.MaxPerMinute <= 0 {
		c.Security.RateLimit.MaxPerMinute = def.Security.RateLimit.MaxPerMinute
	}
	if c.Security.RateLimit.BanDuration <= 0 {
		c.Security.RateLimit.BanDuration = def.Security.RateLimit.BanDuration
	}
	if c.Security.MessageLimit.MaxPerSecond <= 0 {
		c.Security.MessageLimit.MaxPerSecond = def.Security.MessageLimit.MaxPerSecond
	}
	if c.Game.StartingScore == 0 {
		c.Game.StartingScore = def.Game.StartingScore
	}
	if c.Game.DefaultRules.TargetScore == 0 {
		c.Game.DefaultRules.TargetScore = rules.DefaultTargetScore
	}
	if c.Game.DefaultRules.Length == "" {
		c.Game.DefaultRules.Length = rules.Hanchan
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvRedisAddr); ok && v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v, ok := os.LookupEnv(EnvRedisPassword); ok {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// ApplyEnv 仅应用环境变量覆盖，用于无配置文件启动
func (c *Config) ApplyEnv() error {
	return c.applyEnv()
}
