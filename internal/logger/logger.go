package logger

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":             {},
	"channelkey":      {},
	"channel_key":     {},
	"password":        {},
	"authorization":   {},
	"actorcredential": {},
}

var (
	mu   sync.RWMutex
	base = newZap("info")
)

// Init rebuilds the package logger at the given level. "debug" switches to a
// colorized console encoder, everything else logs compact JSON.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	base = newZap(level)
}

func newZap(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.EqualFold(level, "debug") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func Info(message string, fields Fields) {
	mu.RLock()
	defer mu.RUnlock()
	base.Infow(message, flatten(fields)...)
}

func Warn(message string, fields Fields) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warnw(message, flatten(fields)...)
}

func Error(message string, err error, fields Fields) {
	merged := Fields{}
	for k, v := range fields {
		merged[k] = v
	}
	if err != nil {
		merged["error"] = err.Error()
	}

	mu.RLock()
	defer mu.RUnlock()
	base.Errorw(message, flatten(merged)...)
}

// SanitizePayload round-trips a payload through JSON and masks sensitive
// keys so request bodies can be logged safely.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func flatten(fields Fields) []any {
	out := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		if isSensitiveKey(key) {
			out = append(out, key, "******")
			continue
		}
		out = append(out, key, sanitizeValue(value))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
