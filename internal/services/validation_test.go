package services

import "testing"

func TestIsValidAnswer(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: false},
		{text: "I built a service", want: false},
		{text: "I built a small service", want: true},
		{text: "aa aa aa aa aa aa", want: false},
		{text: "ab ab ab ab ab", want: false},
		{text: "abc abc abc abc abc", want: true},
	}

	for _, tt := range tests {
		if got := IsValidAnswer(tt.text); got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.text, tt.want, got)
		}
	}
}
