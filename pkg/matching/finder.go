package matching

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/textutil"
)

const (
	DefaultLimit         = 12
	DefaultMinSimilarity = 0.72
	DefaultMaxDistance   = 2
)

// Tokens that carry no matching signal.
var stopwords = map[string]bool{
	"aus": true, "der": true, "die": true, "das": true, "den": true, "dem": true,
	"und": true, "mit": true, "fuer": true, "bei": true, "von": true, "nach": true,
	"ein": true, "eine": true, "einer": true, "auf": true, "als": true, "ich": true,
	"habe": true, "eines": true, "einem": true, "einen": true, "ist": true,
}

// FinderConfig tunes the fuzzy stage and the result size.
type FinderConfig struct {
	Limit         int
	MinSimilarity float64
	MaxDistance   int
}

func (c FinderConfig) withDefaults() FinderConfig {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = DefaultMinSimilarity
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = DefaultMaxDistance
	}
	return c
}

// Finder searches the catalog index for billing candidates.
type Finder struct {
	index    *catalog.Index
	synonyms SynonymMap
	rules    []entity.PreferRule
	cfg      FinderConfig
}

func NewFinder(index *catalog.Index, synonyms SynonymMap, rules []entity.PreferRule, cfg FinderConfig) *Finder {
	return &Finder{
		index:    index,
		synonyms: synonyms,
		rules:    rules,
		cfg:      cfg.withDefaults(),
	}
}

// Limit reports the configured maximum candidate count. Callers that extend
// the result set after Find use it to re-cap.
func (f *Finder) Limit() int {
	return f.cfg.Limit
}

// Find returns up to Limit candidate entries for the normalized query text,
// most relevant first, restricted to the given payer when one is known.
//
// Precedence: psychiatric guard, blood-draw narrowing (with a deterministic
// exact-title shortcut), synonym expansion, fuzzy match, token-overlap
// fallback, prefer-rule reorder, truncation. An empty pool at any stage
// yields an empty result; the caller decides what that means.
func (f *Finder) Find(norm string, payer entity.Payer) []entity.CatalogEntry {
	pool := f.index.ByPayer(payer)

	if !HasPsychTerms(norm) {
		pool = excludeTitles(pool, psychTerms)
	}

	if HasBloodDrawIntent(norm) {
		pool = restrictTitles(pool, bloodPoolTerms)
		if SpecifiesVenous(norm) || SpecifiesCapillary(norm) {
			for _, e := range pool {
				title := textutil.Normalize(e.Title)
				if title != "" && strings.Contains(norm, title) {
					return []entity.CatalogEntry{e}
				}
			}
		}
	}

	tokens := f.synonyms.Expand(queryTokens(norm))

	matched := f.fuzzyMatch(pool, tokens)
	if len(matched) == 0 {
		matched = overlapMatch(pool, tokens)
	}

	matched = applyPreferRules(matched, f.rules, norm, payer)

	if len(matched) > f.cfg.Limit {
		matched = matched[:f.cfg.Limit]
	}
	return matched
}

func queryTokens(norm string) []string {
	var out []string
	for _, tok := range strings.Fields(norm) {
		if len(tok) <= 2 || stopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func excludeTitles(pool []entity.CatalogEntry, terms []string) []entity.CatalogEntry {
	var out []entity.CatalogEntry
	for _, e := range pool {
		if !containsAny(textutil.Normalize(e.Title), terms) {
			out = append(out, e)
		}
	}
	return out
}

func restrictTitles(pool []entity.CatalogEntry, terms []string) []entity.CatalogEntry {
	var out []entity.CatalogEntry
	for _, e := range pool {
		if containsAny(textutil.Normalize(e.Title), terms) {
			out = append(out, e)
		}
	}
	return out
}

type scoredEntry struct {
	entry entity.CatalogEntry
	score float64
}

// fuzzyMatch scores every pool entry by the summed similarity of query tokens
// against the entry's title tokens. A token counts when its best title-token
// similarity reaches the threshold and its edit distance stays within the
// tolerance.
func (f *Finder) fuzzyMatch(pool []entity.CatalogEntry, tokens []string) []entity.CatalogEntry {
	var scored []scoredEntry
	for _, e := range pool {
		titleTokens := textutil.Tokenize(e.Title)
		var score float64
		for _, qt := range tokens {
			best := 0.0
			for _, tt := range titleTokens {
				if stopwords[tt] {
					continue
				}
				dist := levenshtein.ComputeDistance(qt, tt)
				if dist > f.cfg.MaxDistance {
					continue
				}
				maxLen := len(qt)
				if len(tt) > maxLen {
					maxLen = len(tt)
				}
				if maxLen == 0 {
					continue
				}
				sim := 1.0 - float64(dist)/float64(maxLen)
				if sim >= f.cfg.MinSimilarity && sim > best {
					best = sim
				}
			}
			score += best
		}
		if score > 0 {
			scored = append(scored, scoredEntry{entry: e, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	out := make([]entity.CatalogEntry, len(scored))
	for i, s := range scored {
		out[i] = s.entry
	}
	return out
}

// overlapMatch is the naive fallback: count query tokens (length > 2) that
// occur literally in the normalized title, descending.
func overlapMatch(pool []entity.CatalogEntry, tokens []string) []entity.CatalogEntry {
	var scored []scoredEntry
	for _, e := range pool {
		title := textutil.Normalize(e.Title)
		count := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				count++
			}
		}
		if count > 0 {
			scored = append(scored, scoredEntry{entry: e, score: float64(count)})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	out := make([]entity.CatalogEntry, len(scored))
	for i, s := range scored {
		out[i] = s.entry
	}
	return out
}

// applyPreferRules moves entries whose position code appears in a matched
// rule's prefer list to the front, keeping relative order within both groups.
func applyPreferRules(entries []entity.CatalogEntry, rules []entity.PreferRule, norm string, payer entity.Payer) []entity.CatalogEntry {
	preferred := make(map[string]bool)
	for _, r := range rules {
		if !ruleMatches(r, norm, payer) {
			continue
		}
		for _, pos := range r.Prefer {
			preferred[pos] = true
		}
	}
	if len(preferred) == 0 {
		return entries
	}
	front := make([]entity.CatalogEntry, 0, len(entries))
	rest := make([]entity.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if preferred[e.Pos] {
			front = append(front, e)
		} else {
			rest = append(rest, e)
		}
	}
	return append(front, rest...)
}

func ruleMatches(r entity.PreferRule, norm string, payer entity.Payer) bool {
	if r.Payer != "" && r.Payer != string(payer) {
		return false
	}
	for _, term := range r.WhenAll {
		if !strings.Contains(norm, term) {
			return false
		}
	}
	if len(r.WhenAny) > 0 && !containsAny(norm, r.WhenAny) {
		return false
	}
	return true
}
