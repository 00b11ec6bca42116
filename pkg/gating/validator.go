package gating

import (
	"regexp"
	"strings"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
)

// codeRe matches position-code-shaped tokens: a digit core with up to two
// letters on either side ("300", "1C", "B10").
var codeRe = regexp.MustCompile(`\b[A-Za-z]{0,2}\d{1,4}[A-Za-z]{0,2}\b`)

// unitRe recognizes a following unit word, which marks the number as a
// quantity rather than a position code ("20 Minuten", "24 Stunden").
var unitRe = regexp.MustCompile(`(?i)^\s*(minuten|min|stunden|std|uhr|jahren?|prozent|%|euro|€|punkten?|mal|x)\b`)

// Verdict is the outcome of validating a model reply.
type Verdict struct {
	OK      bool
	Output  string   // the reply when OK, the substitute clarification otherwise
	Unknown []string // codes in the reply that are not in the candidate set
}

// ValidateReply scans the model reply for position codes outside the
// candidate set. On a violation the reply is discarded and replaced with a
// locally generated candidate table. This is a soft post-hoc check: a reply
// using only legal codes still passes even if it picked the wrong one.
func ValidateReply(reply string, candidates []entity.CatalogEntry) Verdict {
	allowed := make(map[string]bool, len(candidates))
	for _, e := range candidates {
		allowed[strings.ToUpper(e.Pos)] = true
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, loc := range codeRe.FindAllStringIndex(reply, -1) {
		token := reply[loc[0]:loc[1]]
		if isDecimalFragment(reply, loc[0], loc[1]) {
			continue
		}
		if unitRe.MatchString(reply[loc[1]:]) {
			continue
		}
		code := strings.ToUpper(token)
		if allowed[code] || seen[code] {
			continue
		}
		seen[code] = true
		unknown = append(unknown, code)
	}

	if len(unknown) == 0 {
		return Verdict{OK: true, Output: reply}
	}
	return Verdict{
		OK:      false,
		Output:  RenderCandidateTable(candidates),
		Unknown: unknown,
	}
}

// isDecimalFragment reports whether the match is part of a decimal number
// like "3,21" or "18.00" so price fragments are not mistaken for codes.
func isDecimalFragment(s string, start, end int) bool {
	if start >= 2 {
		sep, digit := s[start-1], s[start-2]
		if (sep == ',' || sep == '.') && digit >= '0' && digit <= '9' {
			return true
		}
	}
	if end+1 < len(s) {
		sep, digit := s[end], s[end+1]
		if (sep == ',' || sep == '.') && digit >= '0' && digit <= '9' {
			return true
		}
	}
	return false
}
