package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatSelection(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		environment string
		wantJSON    bool
	}{
		{"production defaults to json", "", "production", true},
		{"development defaults to pretty", "", "development", false},
		{"explicit json wins over environment", "json", "development", true},
		{"explicit pretty wins over environment", "pretty", "production", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{
				Level:       slog.LevelInfo,
				Format:      tt.format,
				Environment: tt.environment,
				Writer:      &buf,
			})
			log.Info("lunch recorded")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"lunch recorded"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.Contains(t, buf.String(), "lunch recorded")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "input %q", input)
	}
}

func TestPrettyHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	log := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "feed")}))
	log.Debug("page built", "items", 20, "has_more", true)

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "component=feed")
	assert.Contains(t, out, "items=20")
	assert.Contains(t, out, "has_more=true")
}

func TestPrettyHandler_GroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)

	assert.Same(t, handler, handler.WithGroup(""))

	log := slog.New(handler.WithGroup("http"))
	log.Info("request", "status", 200)

	assert.Contains(t, buf.String(), "http.status=200")
}

func TestPrettyHandler_EnabledRespectsLevel(t *testing.T) {
	handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{AddSource: true}))
	log.Info("with source")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 2, 15, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-15T12:30:00Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "yummy", formatValue(slog.StringValue("yummy")))
	assert.Equal(t, "7", formatValue(slog.IntValue(7)))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	requestLog := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-1")
	fallback := Discard().Logger

	ctx := WithContext(context.Background(), requestLog)
	FromContext(ctx, fallback).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}

func TestLogger_WithErrorAndField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})

	log.WithError(errors.New("store unavailable")).WithField("user_id", int64(7)).Warn("report failed")

	out := buf.String()
	assert.Contains(t, out, `"error":"store unavailable"`)
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, "report failed")
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Format: format, Writer: &buf})

			log.With("Authorization", "Bearer abc").Info("kakao call", "access_token", "kakao-secret", "user_id", 7)

			out := buf.String()
			assert.NotContains(t, out, "kakao-secret")
			assert.NotContains(t, out, "Bearer abc")
			assert.Contains(t, out, redacted)
			assert.Contains(t, out, "user_id")
		})
	}
}
