package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-todo/configs"
)

var (
	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(levelFromEnv())
)

func init() {
	build(zapcore.AddSync(os.Stdout))
}

// SetOutput sends every following log entry to out
func SetOutput(out zapcore.WriteSyncer) {
	build(out)
}

// SetLevel changes the minimum level at runtime, e.g. "debug" or "warn"
func SetLevel(text string) error {
	return level.UnmarshalText([]byte(text))
}

func build(out zapcore.WriteSyncer) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.CallerKey = "logger_name"

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), out, level)

	logger = zap.New(core,
		zap.Fields(zap.String("logName", configs.Env.ApplicationName)),
		zap.AddCaller(),
		zap.AddCallerSkip(1))
}

// levelFromEnv reads LOG_LEVEL, defaulting to info
func levelFromEnv() zapcore.Level {
	lvl := zap.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := lvl.UnmarshalText([]byte(raw)); err != nil {
			return zap.InfoLevel
		}
	}
	return lvl
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = logger.Sync()
}

// Info logs a message at InfoLevel. The message includes any fields passed at the log site, as well as any fields accumulated on the logger.
func Info(message string, fields ...zap.Field) {
	logger.Info(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	logger.Debug(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	logger.Warn(message, fields...)
}

// Error logs a message at ErrorLevel. Pass the cause as zap.Error(err).
func Error(message string, fields ...zap.Field) {
	logger.Error(message, fields...)
}

// Fatal logs a message at FatalLevel, then calls os.Exit.
func Fatal(message string, fields ...zap.Field) {
	logger.Fatal(message, fields...)
}
