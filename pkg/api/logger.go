package api

import "strings"

// LogLevel 日志级别，数值越大输出越多
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel 解析配置中的日志级别。空字符串为 info；未知值返回 LogInfo 和 false
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogError, true
	case "warn", "warning":
		return LogWarn, true
	case "info", "":
		return LogInfo, true
	case "debug":
		return LogDebug, true
	default:
		return LogInfo, false
	}
}

// Logger 表格引擎和数据源使用的日志接口，printf 风格
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// NoOpLogger 丢弃所有日志，未配置 WithLogger 时使用
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(format string, args ...interface{}) {}
func (l *NoOpLogger) Info(format string, args ...interface{})  {}
func (l *NoOpLogger) Warn(format string, args ...interface{})  {}
func (l *NoOpLogger) Error(format string, args ...interface{}) {}
func (l *NoOpLogger) SetLevel(level LogLevel)                  {}
func (l *NoOpLogger) GetLevel() LogLevel                       { return LogError }
