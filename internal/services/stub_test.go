package services

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errBackendDown = errors.New("backend unavailable")

type generateCall struct {
	prompt      string
	temperature float32
	maxTokens   int32
}

// stubGenerator answers by the first route whose key appears in the prompt,
// falling back to response/err.
type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	routes   map[string]string
	calls    []generateCall
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, generateCall{prompt: prompt, temperature: temperature, maxTokens: maxTokens})

	for key, resp := range s.routes {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) lastCall() generateCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return generateCall{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func repeatWords(word string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}
