package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	WithFields(l, zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["foo"]; got != "bar" {
		t.Fatalf("expected field to be bar, got %v", got)
	}

	if WithFields(nil, zap.String("baz", "qux")) == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}

func TestNamed(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	Named(zap.New(core), " persona ").Info("classified")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldComponent] != "persona" {
		t.Fatalf("expected component persona, got %v", ctx[FieldComponent])
	}
}

func TestSessionFields(t *testing.T) {
	fields := SessionFields(" abc ", "")
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != FieldSessionID || fields[0].String != "abc" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if got := SessionFields("", "  "); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "hello", limit: 10, want: "hello"},
		{name: "trimmed", in: "  hello  ", limit: 5, want: "hello"},
		{name: "cut", in: "interview", limit: 5, want: "inter..."},
		{name: "zero limit", in: "anything", limit: 0, want: ""},
		{name: "runes", in: "résumé data", limit: 6, want: "résumé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
