package api

import (
	log "github.com/sirupsen/logrus"
)

// LogrusLogger 基于 logrus 的日志实现（命令行工具使用）
type LogrusLogger struct {
	entry *log.Entry
}

// NewLogrusLogger 创建 logrus 日志，logger 为 nil 时使用全局 logger
func NewLogrusLogger(logger *log.Logger) *LogrusLogger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusLogger{entry: log.NewEntry(logger)}
}

// WithField 返回附带字段的日志
func (l *LogrusLogger) WithField(key string, value interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *LogrusLogger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// SetLevel 设置日志级别（作用于底层 logrus.Logger）
func (l *LogrusLogger) SetLevel(level LogLevel) {
	l.entry.Logger.SetLevel(toLogrusLevel(level))
}

// GetLevel 获取日志级别
func (l *LogrusLogger) GetLevel() LogLevel {
	switch l.entry.Logger.GetLevel() {
	case log.PanicLevel, log.FatalLevel, log.ErrorLevel:
		return LogError
	case log.WarnLevel:
		return LogWarn
	case log.InfoLevel:
		return LogInfo
	default:
		return LogDebug
	}
}

func toLogrusLevel(level LogLevel) log.Level {
	switch level {
	case LogError:
		return log.ErrorLevel
	case LogWarn:
		return log.WarnLevel
	case LogDebug:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
