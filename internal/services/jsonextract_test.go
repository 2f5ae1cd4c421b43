package services

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "labeled fence",
			in:   "Here you go:\n```json\n{\"a\": 1}\n```\nThanks",
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "uppercase label",
			in:   "```JSON\n[1,2]\n```",
			want: `[1,2]`,
			ok:   true,
		},
		{
			name: "bare fence",
			in:   "```\n{\"b\": true}\n```",
			want: `{"b": true}`,
			ok:   true,
		},
		{
			name: "fence with other label",
			in:   "```javascript\n{\"c\": \"x\"}\n```",
			want: `{"c": "x"}`,
			ok:   true,
		},
		{
			name: "raw json",
			in:   "  {\"d\": 2}  ",
			want: `{"d": 2}`,
			ok:   true,
		},
		{
			name: "unterminated fence",
			in:   "```json\n{\"e\": 3}",
			want: `{"e": 3}`,
			ok:   true,
		},
		{
			name: "broken labeled fence falls through to raw",
			in:   "```json\nnot json\n```",
			ok:   false,
		},
		{
			name: "prose",
			in:   "I cannot answer that.",
			ok:   false,
		},
		{
			name: "empty",
			in:   "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%s)", tt.ok, ok, got)
			}
			if ok && string(got) != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDecodeJSONObject(t *testing.T) {
	obj, err := decodeJSONObject("```json\n{\"relevance_score\": \"85\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["relevance_score"] != "85" {
		t.Fatalf("unexpected object: %v", obj)
	}

	if _, err := decodeJSONObject("[1, 2]"); err == nil {
		t.Fatalf("expected error for non-object JSON")
	}
	if _, err := decodeJSONObject("null"); err == nil {
		t.Fatalf("expected error for null")
	}
}

func TestCoercion(t *testing.T) {
	if f, ok := coerceFloat(" 72.5 "); !ok || f != 72.5 {
		t.Fatalf("expected 72.5, got %v (%v)", f, ok)
	}
	if f, ok := coerceFloat("80%"); !ok || f != 80 {
		t.Fatalf("expected 80, got %v (%v)", f, ok)
	}
	if _, ok := coerceFloat("high"); ok {
		t.Fatalf("expected non-numeric string to fail")
	}
	if _, ok := coerceFloat(nil); ok {
		t.Fatalf("expected nil to fail")
	}
	if b, ok := coerceBool("Yes"); !ok || !b {
		t.Fatalf("expected yes to be true")
	}
	if _, ok := coerceBool("perhaps"); ok {
		t.Fatalf("expected unknown bool to fail")
	}
	if n, ok := coerceInt("4.6"); !ok || n != 5 {
		t.Fatalf("expected 5, got %d", n)
	}
	if s, ok := coerceStringSlice("single"); !ok || len(s) != 1 {
		t.Fatalf("expected single-element slice, got %v", s)
	}
	if s, ok := coerceStringSlice([]any{"a", 1.0, "", nil}); !ok || len(s) != 2 {
		t.Fatalf("expected two items, got %v", s)
	}
}
