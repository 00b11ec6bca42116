// Package catalog loads the tariff artifacts generated from the payer
// catalogs and exposes them as a read-only index.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/textutil"
)

// Index is the in-memory view over all catalog entries. It is populated once
// at startup and safe for concurrent reads.
type Index struct {
	entries []entity.CatalogEntry
	byTitle map[string][]int // normalized title -> entry indices
}

// NewIndex builds an index over the given entries.
func NewIndex(entries []entity.CatalogEntry) *Index {
	idx := &Index{
		entries: entries,
		byTitle: make(map[string][]int, len(entries)),
	}
	for i, e := range entries {
		key := textutil.Normalize(e.Title)
		idx.byTitle[key] = append(idx.byTitle[key], i)
	}
	return idx
}

// LoadIndex reads catalog.json from dir and builds the index.
func LoadIndex(dir string) (*Index, error) {
	path := filepath.Join(dir, "catalog.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog artifact %s: %w", path, err)
	}
	var entries []entity.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog artifact %s: %w", path, err)
	}
	return NewIndex(entries), nil
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// All returns every entry. The returned slice must not be modified.
func (idx *Index) All() []entity.CatalogEntry {
	return idx.entries
}

// ByPayer returns all entries for the given payer, or all entries when the
// payer is unknown.
func (idx *Index) ByPayer(payer entity.Payer) []entity.CatalogEntry {
	if payer == entity.PayerUnknown {
		return idx.entries
	}
	var out []entity.CatalogEntry
	for _, e := range idx.entries {
		if e.Payer == payer {
			out = append(out, e)
		}
	}
	return out
}

// ByNormalizedTitle returns the entries whose normalized title equals the
// given normalized string, optionally restricted to a payer.
func (idx *Index) ByNormalizedTitle(normTitle string, payer entity.Payer) []entity.CatalogEntry {
	var out []entity.CatalogEntry
	for _, i := range idx.byTitle[normTitle] {
		e := idx.entries[i]
		if payer != entity.PayerUnknown && e.Payer != payer {
			continue
		}
		out = append(out, e)
	}
	return out
}

// LoadSynonyms reads synonyms.json from dir: a map from normalized token to
// alternative tokens. A missing file is not an error; matching then runs
// without expansion.
func LoadSynonyms(dir string) (map[string][]string, error) {
	path := filepath.Join(dir, "synonyms.json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read synonym artifact %s: %w", path, err)
	}
	var m map[string][]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse synonym artifact %s: %w", path, err)
	}
	return m, nil
}

// LoadRules reads rules.json from dir. A missing file yields no rules.
func LoadRules(dir string) ([]entity.PreferRule, error) {
	path := filepath.Join(dir, "rules.json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rule artifact %s: %w", path, err)
	}
	var rules []entity.PreferRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rule artifact %s: %w", path, err)
	}
	return rules, nil
}
