// Package jsonx recovers JSON values embedded in free-form model output.
//
// Model responses often wrap the requested JSON in prose or markdown. Find
// locates the greedy bracket-delimited span (first opening brace or bracket
// to the last matching closer in the text) and Decode parses it, falling back
// to the whole text and finally to a caller-supplied default. The greedy scan
// is intentionally simple: multiple top-level values or braces inside string
// literals can break it, and callers absorb that by treating the result as a
// best-effort default rather than an error.
package jsonx

import (
	"encoding/json"
	"strings"
)

// Parsed wraps a decoded value and records whether it came from the model
// output or from the caller's fallback. Downstream consumers treat defaulted
// values as low-confidence placeholders, never as hard failures.
type Parsed[T any] struct {
	Value     T
	Defaulted bool
	Reason    string
}

// Ok wraps a genuinely decoded value.
func Ok[T any](v T) Parsed[T] { return Parsed[T]{Value: v} }

// Default wraps a fallback value with the reason decoding failed.
func Default[T any](v T, reason string) Parsed[T] {
	return Parsed[T]{Value: v, Defaulted: true, Reason: reason}
}

// Find returns the greedy JSON span in text: from the first '{' to the last
// '}' or from the first '[' to the last ']', whichever candidate starts
// earlier. The boolean is false when no such span exists.
func Find(text string) (string, bool) {
	objSpan, objOK := span(text, '{', '}')
	arrSpan, arrOK := span(text, '[', ']')
	switch {
	case objOK && arrOK:
		if strings.Index(text, "{") < strings.Index(text, "[") {
			return objSpan, true
		}
		return arrSpan, true
	case objOK:
		return objSpan, true
	case arrOK:
		return arrSpan, true
	}
	return "", false
}

func span(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Decode parses the greedy JSON span in text into T. If the span is missing
// or malformed it retries with the entire text, and if that also fails it
// returns the fallback marked as defaulted.
func Decode[T any](text string, fallback T) Parsed[T] {
	if s, ok := Find(text); ok {
		var v T
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return Ok(v)
		}
	}
	var v T
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err == nil {
		return Ok(v)
	}
	return Default(fallback, "no parseable JSON in model output")
}
