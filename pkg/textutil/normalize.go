// Package textutil provides the text normalization all matching stages rely on.
package textutil

import (
	"regexp"
	"strings"
)

// German diacritics fold to their digraph spellings so that "Blutabnähme"
// and "BLUTABNAEHME" normalize identically.
var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases, folds German diacritics to digraphs, collapses runs
// of non-alphanumeric characters to single spaces and trims. Idempotent.
func Normalize(s string) string {
	s = umlautReplacer.Replace(s)
	s = strings.ToLower(s)
	s = nonAlnumRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits the normalized form of s into tokens.
func Tokenize(s string) []string {
	norm := Normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}
