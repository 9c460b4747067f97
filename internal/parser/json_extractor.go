// Package parser pulls structured data out of free-form model output and
// planner artifacts.
//
// ExtractJSON locates a JSON object in model output, using a key as an
// anchor. It tries a fenced-code-block extraction first, then falls back
// to bracket matching.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidJSON is returned when an anchored object is found but does not parse.
var ErrInvalidJSON = errors.New("invalid json")

// ExtractJSON searches text for the JSON object associated with key and
// returns it verbatim.
//
// Strategy:
//  1. Look for a ```json (or bare ```) fenced block that contains key.
//  2. Fall back to bracket-matching: find the '{' enclosing or following
//     key, then walk forward counting nesting depth while respecting
//     string literals (including escaped quotes).
//
// If key is not found anywhere in text the function returns (nil, nil).
func ExtractJSON(text string, key string) (json.RawMessage, error) {
	if text == "" || !strings.Contains(text, key) {
		return nil, nil
	}

	if raw, err := extractFromCodeBlock(text, key); raw != nil || err != nil {
		return raw, err
	}

	return extractByBracketMatch(text, key)
}

// extractFromCodeBlock looks for fenced blocks that contain key and returns
// the trimmed block body.
func extractFromCodeBlock(text string, key string) (json.RawMessage, error) {
	const fence = "```"
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence)
		if openIdx == -1 {
			return nil, nil
		}

		blockStart := openIdx + len(fence)
		// Skip an info string such as "json" up to the end of the line.
		if nl := strings.IndexByte(remaining[blockStart:], '\n'); nl >= 0 && !strings.Contains(remaining[blockStart:blockStart+nl], "{") {
			blockStart += nl + 1
		}

		closeIdx := strings.Index(remaining[blockStart:], fence)
		if closeIdx == -1 {
			return nil, nil
		}

		block := strings.TrimSpace(remaining[blockStart : blockStart+closeIdx])
		if strings.Contains(block, key) && strings.HasPrefix(block, "{") {
			if !json.Valid([]byte(block)) {
				return nil, fmt.Errorf("%w: code block", ErrInvalidJSON)
			}
			return json.RawMessage(block), nil
		}

		remaining = remaining[blockStart+closeIdx+len(fence):]
	}
}

// extractByBracketMatch locates the JSON object that contains or follows
// key. It first looks backward from key for an enclosing '{', then forward.
func extractByBracketMatch(text string, key string) (json.RawMessage, error) {
	keyIdx := strings.Index(text, key)

	// Try 1: walk backward to the innermost '{' whose object encloses key.
	for i := keyIdx - 1; i >= 0; i-- {
		if text[i] != '{' {
			continue
		}
		if end, ok := matchBraces(text[i:]); ok && i+end > keyIdx {
			candidate := text[i : i+end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), nil
			}
		}
	}

	// Try 2: the first '{' after key.
	braceStart := strings.Index(text[keyIdx:], "{")
	if braceStart == -1 {
		return nil, nil
	}
	raw := text[keyIdx+braceStart:]
	end, ok := matchBraces(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unmatched braces after key %q", ErrInvalidJSON, key)
	}
	candidate := raw[:end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("%w: bracket-matched object after key %q", ErrInvalidJSON, key)
	}
	return json.RawMessage(candidate), nil
}

// matchBraces returns the index of the closing '}' that matches the
// opening '{' at position 0, correctly handling string literals
// (including escaped quotes), nested objects, and arrays.
// Returns (index, true) on success or (0, false) if unmatched.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	braceDepth := 0
	bracketDepth := 0
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch ch {
			case '\\':
				i++ // skip the escaped character
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 0 {
				return i, true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
	}

	return 0, false
}
