package search

import (
	"math"
	"strconv"
	"strings"
)

// VerdictKind is the oracle's classification of a partial plan.
type VerdictKind int

const (
	VerdictUnknown VerdictKind = iota
	VerdictReached
	VerdictImpossible
	VerdictScore
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictReached:
		return "reached"
	case VerdictImpossible:
		return "impossible"
	case VerdictScore:
		return "score"
	default:
		return "unknown"
	}
}

// Verdict is a parsed classification.
type Verdict struct {
	Kind  VerdictKind
	Score float64 // set when Kind is VerdictScore
	Raw   string
}

// answerLabel is the few-shot label the model sometimes echoes back.
const answerLabel = "answer:"

// ParseVerdict interprets a raw classification string. Matching is
// case-insensitive; surrounding whitespace, a trailing period, and an
// "Answer:" label are ignored. Anything that is neither a keyword nor a
// finite number yields VerdictUnknown.
func ParseVerdict(raw string) Verdict {
	v := Verdict{Raw: raw}
	s := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.LastIndex(s, answerLabel); idx >= 0 {
		s = strings.TrimSpace(s[idx+len(answerLabel):])
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))

	switch s {
	case "reached":
		v.Kind = VerdictReached
		return v
	case "impossible":
		v.Kind = VerdictImpossible
		return v
	}

	score, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return v
	}
	v.Kind = VerdictScore
	v.Score = score
	return v
}
