package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const fence = "```"

var errNoJSON = errors.New("no JSON found in response")

// ExtractJSON finds a JSON value in generated text. Candidates are tried in order:
// a fence labeled json, any fence, then the raw text.
func ExtractJSON(text string) (json.RawMessage, bool) {
	candidates := []func(string) (string, bool){
		labeledFence,
		anyFence,
		func(s string) (string, bool) { return strings.TrimSpace(s), true },
	}

	for _, candidate := range candidates {
		body, ok := candidate(text)
		if !ok || body == "" {
			continue
		}
		if json.Valid([]byte(body)) {
			return json.RawMessage(body), true
		}
	}

	return nil, false
}

func labeledFence(text string) (string, bool) {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, fence+"json")
	if idx < 0 {
		return "", false
	}
	return fenceBody(text[idx+len(fence)+len("json"):]), true
}

func anyFence(text string) (string, bool) {
	idx := strings.Index(text, fence)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(fence):]
	// drop an info string such as "javascript" on the opening line
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
		rest = rest[nl+1:]
	}
	return fenceBody(rest), true
}

// fenceBody returns everything up to the closing fence, or the rest when unterminated.
func fenceBody(rest string) string {
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// decodeJSON extracts JSON from text and unmarshals it into target.
func decodeJSON(text string, target any) error {
	raw, ok := ExtractJSON(text)
	if !ok {
		return errNoJSON
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// decodeJSONObject extracts a JSON object as a loosely typed map.
func decodeJSONObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := decodeJSON(text, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNoJSON
	}
	return obj, nil
}
