package parser

import (
	"strconv"
	"strings"
)

// NoCost is reported for plans whose cost line cannot be read, so they sort
// after every plan with a real cost.
const NoCost = 1e5

// CleanPDDL trims model output down to a problem file: the body of the first
// fenced block when there is one, with ';' comments removed. A comment ends
// at the newline or just before the ')' that closes it.
func CleanPDDL(s string) string {
	if beg := strings.Index(s, "```"); beg >= 0 {
		body := s[beg+3:]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		// Drop an info string like "pddl" on the fence line.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], "(") {
			body = body[nl+1:]
		}
		s = body
	}

	var b strings.Builder
	for {
		start := strings.IndexByte(s, ';')
		if start < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		rest := s[start:]
		end := strings.IndexAny(rest, ")\n")
		if end < 0 {
			break
		}
		s = rest[end:]
	}

	return strings.TrimSpace(b.String()) + "\n"
}

// ParseCost reads the cost from a planner's plan-file footer, e.g.
// "; cost = 12 (unit cost)". The value is the second token after "cost".
func ParseCost(line string) float64 {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f != "cost" {
			continue
		}
		if i+2 >= len(fields) {
			return NoCost
		}
		v, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return NoCost
		}
		return v
	}
	return NoCost
}
