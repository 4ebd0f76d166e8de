package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("owner_id", "123").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"owner_id":"123"`) {
		t.Errorf("Expected output to contain owner_id field, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	log := New("error", "json")
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("Expected error level, got %v", log.GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger when none is stored, got %v", log.GetLevel())
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := &bytes.Buffer{}
	stored := &bytes.Buffer{}

	log := FromContextOr(context.Background(), NewWithWriter(fallback))
	log.Info().Msg("fallback")
	if !strings.Contains(fallback.String(), "fallback") {
		t.Errorf("Expected fallback logger to be used, got: %s", fallback.String())
	}

	ctx := WithContext(context.Background(), NewWithWriter(stored))
	log = FromContextOr(ctx, NewWithWriter(fallback))
	log.Info().Msg("stored")
	if !strings.Contains(stored.String(), "stored") || strings.Contains(fallback.String(), "stored") {
		t.Errorf("Expected stored logger to be used, got stored=%q fallback=%q", stored.String(), fallback.String())
	}
}
