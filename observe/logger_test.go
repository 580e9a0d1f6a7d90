package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_IncludesOpFields verifies operation fields are present in log output.
func TestLogger_IncludesOpFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{
		Namespace: "billing",
		Name:      "charge",
	}

	opLogger := logger.WithOp(meta)
	opLogger.Info(context.Background(), "test message")

	output := buf.String()

	// Parse JSON output
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, output)
	}

	// Verify operation fields
	if v, ok := logEntry["op.id"].(string); !ok || v != "billing.charge" {
		t.Errorf("expected op.id='billing.charge', got %v", logEntry["op.id"])
	}
	if v, ok := logEntry["op.namespace"].(string); !ok || v != "billing" {
		t.Errorf("expected op.namespace='billing', got %v", logEntry["op.namespace"])
	}
	if v, ok := logEntry["op.name"].(string); !ok || v != "charge" {
		t.Errorf("expected op.name='charge', got %v", logEntry["op.name"])
	}
}

// TestLogger_IncludesDuration verifies duration_ms field is present.
func TestLogger_IncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Name: "test_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "test message",
		Field{Key: "duration_ms", Value: 50.5},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["duration_ms"].(float64); !ok || v != 50.5 {
		t.Errorf("expected duration_ms=50.5, got %v", logEntry["duration_ms"])
	}
}

// TestLogger_ErrorLevel verifies error log level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Name: "error_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Error(context.Background(), "operation failed",
		Field{Key: "error", Value: "connection timeout"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	// Verify level
	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}

	// Verify error field
	if v, ok := logEntry["error"].(string); !ok || v != "connection timeout" {
		t.Errorf("expected error='connection timeout', got %v", logEntry["error"])
	}
}

// TestLogger_InfoLevel verifies info log level.
func TestLogger_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Name: "info_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "operation complete")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "info" {
		t.Errorf("expected level='info', got %v", logEntry["level"])
	}
}

// TestLogger_SecretsRedacted verifies credential fields are not logged raw.
func TestLogger_SecretsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Name: "sensitive_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "op executed",
		Field{Key: "password", Value: "secret_password_123"},
		Field{Key: "token", Value: "abc.def.ghi"},
	)

	output := buf.String()

	// The raw values should NOT appear
	if strings.Contains(output, "secret_password_123") {
		t.Error("raw password should be redacted, but found in output")
	}
	if strings.Contains(output, "abc.def.ghi") {
		t.Error("raw token should be redacted, but found in output")
	}

	// Should contain redacted markers
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}
	if v, ok := logEntry["password"].(string); !ok || v != "[REDACTED]" {
		t.Errorf("expected password='[REDACTED]', got %v", logEntry["password"])
	}
	if v, ok := logEntry["token"].(string); !ok || v != "[REDACTED]" {
		t.Errorf("expected token='[REDACTED]', got %v", logEntry["token"])
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	meta := OpMeta{Name: "filtered_op"}
	opLogger := logger.WithOp(meta)

	// Info should be filtered out
	opLogger.Info(context.Background(), "info message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	// Warn should pass through
	opLogger.Warn(context.Background(), "warn message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_DebugLevel verifies debug level filtering.
func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	meta := OpMeta{Name: "debug_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Debug(context.Background(), "debug message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "debug" {
		t.Errorf("expected level='debug', got %v", logEntry["level"])
	}
}

// TestLogger_WarnLevel verifies warn level.
func TestLogger_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Name: "warn_op"}
	opLogger := logger.WithOp(meta)

	opLogger.Warn(context.Background(), "warning message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "warn" {
		t.Errorf("expected level='warn', got %v", logEntry["level"])
	}
}

// TestLogger_WithOpDoesNotAffectParent verifies the parent logger is not
// polluted with operation context.
func TestLogger_WithOpDoesNotAffectParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	_ = logger.WithOp(OpMeta{Namespace: "billing", Name: "charge"})

	logger.Info(context.Background(), "parent message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if _, ok := logEntry["op.id"]; ok {
		t.Error("parent logger should not carry op.id")
	}
}

// TestParseLogLevel_RoundTrip verifies parse and String agree.
func TestParseLogLevel_RoundTrip(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if got := ParseLogLevel(s).String(); got != s {
			t.Errorf("ParseLogLevel(%q).String() = %q", s, got)
		}
	}

	// Unknown levels default to info
	if got := ParseLogLevel("bogus"); got != LevelInfo {
		t.Errorf("expected LevelInfo for unknown level, got %v", got)
	}
}
