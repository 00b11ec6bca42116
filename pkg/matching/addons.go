package matching

import (
	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/textutil"
)

// addonCategory links trigger vocabulary in the query to title patterns of
// commonly bundled tariff entries. At most one entry per category is derived.
type addonCategory struct {
	name     string
	triggers []string
	patterns []string
}

var addonCategories = []addonCategory{
	{
		name:     "erstordination",
		triggers: []string{"erstordination", "erstkontakt", "erstbesuch", "neuer patient", "neue patientin", "erstes mal"},
		patterns: []string{"erstordination", "erste ordination"},
	},
	{
		name:     "koordination",
		triggers: []string{"koordination", "koordinierung", "case management"},
		patterns: []string{"koordinationszuschlag", "koordination"},
	},
	{
		name:     "befundbericht",
		triggers: []string{"befund", "bericht", "arztbrief", "zuweisung"},
		patterns: []string{"befundbericht", "ausfuehrlicher befund", "bericht"},
	},
	{
		name:     "langzeit_ekg",
		triggers: []string{"langzeit ekg", "24 stunden ekg", "holter"},
		patterns: []string{"langzeit ekg"},
	},
}

// DeriveAddons returns bundled tariff entries triggered by keywords in the
// normalized query, restricted to the detected payer. Per category the first
// catalog entry whose title contains one of the patterns is taken.
func DeriveAddons(norm string, payer entity.Payer, index *catalog.Index) []entity.CatalogEntry {
	var out []entity.CatalogEntry
	pool := index.ByPayer(payer)
	for _, cat := range addonCategories {
		if !containsAny(norm, cat.triggers) {
			continue
		}
		for _, e := range pool {
			if containsAny(textutil.Normalize(e.Title), cat.patterns) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// MergeCandidates appends addons to candidates, dropping duplicates by payer
// and position code. When limit is positive the result never exceeds it;
// add-ons displace the lowest-ranked base candidates instead of being cut.
func MergeCandidates(candidates, addons []entity.CatalogEntry, limit int) []entity.CatalogEntry {
	type key struct {
		payer entity.Payer
		pos   string
	}
	seen := make(map[key]bool, len(candidates))
	for _, e := range candidates {
		seen[key{e.Payer, e.Pos}] = true
	}
	fresh := make([]entity.CatalogEntry, 0, len(addons))
	for _, e := range addons {
		k := key{e.Payer, e.Pos}
		if seen[k] {
			continue
		}
		seen[k] = true
		fresh = append(fresh, e)
	}
	if limit > 0 && len(candidates)+len(fresh) > limit {
		keep := limit - len(fresh)
		if keep < 0 {
			keep = 0
		}
		candidates = candidates[:keep]
	}
	out := append(candidates, fresh...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
