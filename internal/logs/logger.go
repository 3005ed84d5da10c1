package logs

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger()
)

func newLogger() *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "severity",
		MessageKey:     "message",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// SetLevel règle le niveau minimum ("DEBUG", "INFO", "WARN", "ERROR").
func SetLevel(s string) {
	level.SetLevel(parseLevel(s))
}

func Sync() {
	_ = logger.Sync()
}

// LogJSON écrit une entrée JSON : severity, message, time + champs libres.
func LogJSON(severity, message string, fields map[string]interface{}) {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}

	switch parseLevel(severity) {
	case zapcore.DebugLevel:
		logger.Debug(message, zf...)
	case zapcore.WarnLevel:
		logger.Warn(message, zf...)
	case zapcore.ErrorLevel:
		logger.Error(message, zf...)
	case zapcore.FatalLevel:
		logger.Fatal(message, zf...)
	default:
		logger.Info(message, zf...)
	}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
