package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mirrors the production encoder shape so entries can be captured and parsed.
func newCapturedJSONLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all log entries are in structured JSON format", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := newCapturedJSONLogger(&buf)
			defer logger.Sync()

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			if _, ok := logEntry["level"]; !ok {
				return false
			}
			if _, ok := logEntry["timestamp"]; !ok {
				return false
			}
			return logEntry["message"] == message
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RequestFieldsSurviveEncoding(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("structured fields round-trip through the encoder", prop.ForAll(
		func(userID string, path string) bool {
			var buf bytes.Buffer
			logger := newCapturedJSONLogger(&buf)
			defer logger.Sync()

			logger.Info("Request completed",
				zap.String("user_id", userID),
				zap.String("path", path),
				zap.Int("status", 200),
			)

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			return logEntry["user_id"] == userID &&
				logEntry["path"] == path &&
				logEntry["status"] == float64(200)
		},
		gen.Identifier(),
		gen.OneConstOf("/api/books", "/api/cart", "/api/orders", "/api/users/login"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewProductionLogger(t *testing.T) {
	logger, err := New("production")
	if err != nil {
		t.Fatalf("New(production) failed: %v", err)
	}
	defer logger.Sync()

	// Default production level is info: debug must be suppressed.
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not enable debug by default")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("production logger should enable info")
	}
}

func TestNewDevelopmentLogger(t *testing.T) {
	logger, err := New("development")
	if err != nil {
		t.Fatalf("New(development) failed: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should enable debug")
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	logger, err := New("production")
	if err != nil {
		t.Fatalf("New(production) failed: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("LOG_LEVEL=error should suppress info")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("LOG_LEVEL=error should enable error")
	}
}

func TestInvalidLogLevelFallsBackToDefault(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	logger, err := New("production")
	if err != nil {
		t.Fatalf("New(production) failed: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unparseable LOG_LEVEL should leave the default info level")
	}
}
