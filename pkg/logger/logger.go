package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init configures the process-wide logger. Anything other than "development"
// gets the JSON production encoder.
func Init(env string) {
	var cfg zap.Config
	if env == "development" || env == "" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}

	Set(l)
}

// Set swaps the underlying zap logger, mostly useful in tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Sync() {
	_ = L().Sync()
}

func Debug(msg string, args ...any) { L().Debug(msg, fields(args)...) }
func Info(msg string, args ...any)  { L().Info(msg, fields(args)...) }
func Warn(msg string, args ...any)  { L().Warn(msg, fields(args)...) }
func Error(msg string, args ...any) { L().Error(msg, fields(args)...) }
func Fatal(msg string, args ...any) { L().Fatal(msg, fields(args)...) }

// fields turns "key", value pairs into zap fields. A bare error is logged
// under "error"; anything else without a key goes under "arg".
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case zap.Field:
			out = append(out, v)
		case error:
			out = append(out, zap.Error(v))
		case string:
			if i+1 < len(args) {
				out = append(out, zap.Any(v, args[i+1]))
				i++
				continue
			}
			out = append(out, zap.String("arg", v))
		default:
			out = append(out, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}

	return out
}
