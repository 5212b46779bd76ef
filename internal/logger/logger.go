// Package logger 基于 zerolog 的全局日志，可选 lumberjack 文件滚动。
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

// LoggerKey context 中保存 logger 的键
const LoggerKey contextKey = "logger"

var (
	mu           sync.RWMutex
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	logFile      *lumberjack.Logger
	logPath      string
)

// Config 日志配置
type Config struct {
	Level   string    // debug, info, warn, error
	Format  string    // json, console
	File    string    // 为空时不写文件
	Console bool      // 写文件时是否同时输出到终端
	Output  io.Writer // 默认 stdout
}

// Init 初始化全局 logger
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		if logFile != nil {
			_ = logFile.Close()
		}
		logFile = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		logPath = cfg.File
		if cfg.Console {
			output = io.MultiWriter(output, logFile)
		} else {
			output = logFile
		}
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "2006-01-02 15:04:05.000",
			NoColor:    cfg.File != "" && !cfg.Console,
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("%-5s", i))
			},
		}
	}

	globalLogger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// InitClient 终端客户端只写文件，避免干扰界面
func InitClient() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return Init(Config{
		Level:  "debug",
		Format: "console",
		File:   filepath.Join(homeDir, ".mahjong-scoreboard", "debug.log"),
	})
}

// Close 关闭日志文件
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// L 返回全局 logger
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := globalLogger
	return &l
}

// WithSession 返回带对局 ID 的 context
func WithSession(ctx context.Context, sessionID string) context.Context {
	l := FromContext(ctx).With().Str("session", sessionID).Logger()
	return context.WithValue(ctx, LoggerKey, &l)
}

// FromContext 取 context 中的 logger，没有则返回全局 logger
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}

// Debug 调试日志
func Debug(ctx context.Context) *zerolog.Event { return FromContext(ctx).Debug() }

// Info 普通日志
func Info(ctx context.Context) *zerolog.Event { return FromContext(ctx).Info() }

// Warn 警告日志
func Warn(ctx context.Context) *zerolog.Event { return FromContext(ctx).Warn() }

// Error 错误日志
func Error(ctx context.Context) *zerolog.Event { return FromContext(ctx).Error() }

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	L().Error().Str("stack", string(debug.Stack())).Msgf("[PANIC] %v", r)
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
