package logger

import (
	"context"
	"testing"
)

func TestInitAndLog(t *testing.T) {
	Init("development")
	if GetLogger() == nil {
		t.Fatal("logger not initialized")
	}

	// Must not panic with or without a request id in context.
	Info(context.Background(), "plain message")
	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	Info(ctx, "tagged message")
	Warn(ctx, "warn message")
	Debug(ctx, "debug message")
}

func TestWithContext_NilContext(t *testing.T) {
	Init("development")
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestWithContext_TypedKey(t *testing.T) {
	Init("development")
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-2")
	if WithContext(ctx) == nil {
		t.Fatal("expected logger with request id field")
	}
}
