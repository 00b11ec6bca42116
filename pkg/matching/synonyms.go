package matching

// SynonymMap maps a normalized token to alternative normalized tokens used to
// widen fuzzy-match recall.
type SynonymMap map[string][]string

// Expand returns the tokens plus every synonym of a present token, deduped,
// original order first.
func (m SynonymMap) Expand(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		out = append(out, tok)
	}
	for _, tok := range tokens {
		add(tok)
	}
	for _, tok := range tokens {
		for _, alt := range m[tok] {
			add(alt)
		}
	}
	return out
}
