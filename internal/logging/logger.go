package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

const (
	// LogLevelEnvVar controls logging verbosity. When unset or empty, logging
	// is silent. Valid values: "debug", "info", "warn", "error".
	LogLevelEnvVar = "LIGHTCTL_LOG_LEVEL"

	// LogFileEnvVar redirects log output to a file. The interactive panel owns
	// the terminal, so anything written to stdout would corrupt the screen.
	LogFileEnvVar = "LIGHTCTL_LOG_FILE"
)

// Initialize creates the global logger at the given level.
// An empty level falls back to LIGHTCTL_LOG_LEVEL; if that is also empty
// the logger is a no-op.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := os.Getenv(LogFileEnvVar)
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger from LIGHTCTL_LOG_LEVEL only.
func InitializeFromEnv() error {
	return Initialize("")
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Explicitly set but unknown: info
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger, a no-op one if Initialize was never called.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the global logger; nil restores the lazy no-op default.
func SetLogger(l *zap.Logger) {
	logger = l
}

func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRequest logs an outbound HTTP request to the controller.
func LogRequest(method, url string) {
	Debug("Device request",
		zap.String("method", method),
		zap.String("url", url),
	)
}

// LogResponse logs the controller's answer to a request.
func LogResponse(method, url string, statusCode int, elapsed time.Duration, body []byte) {
	Debug("Device response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("body", truncate(body, 256)),
	)
}

// LogUpdate logs a field update leaving the dispatcher.
func LogUpdate(channel, name, value string) {
	Info("Field update",
		zap.String("channel", channel),
		zap.String("field", name),
		zap.String("value", value),
	)
}

// LogWebSocketMessage logs a frame received from the controller's live socket.
func LogWebSocketMessage(remoteAddr string, messageType int, data []byte) {
	Debug("WebSocket message",
		zap.String("remote_addr", remoteAddr),
		zap.String("message_type", wsMessageTypeName(messageType)),
		zap.Int("length", len(data)),
		zap.String("content", truncate(data, 256)),
	)
}

func wsMessageTypeName(msgType int) string {
	switch msgType {
	case 1:
		return "text"
	case 2:
		return "binary"
	case 8:
		return "close"
	case 9:
		return "ping"
	case 10:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", msgType)
	}
}

func truncate(data []byte, limit int) string {
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
