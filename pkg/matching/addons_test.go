package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/textutil"
)

func addonIndex() *catalog.Index {
	return catalog.NewIndex([]entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "2", Title: "Erstordination im Quartal"},
		{Payer: entity.PayerOEGK, Pos: "22", Title: "Ausführlicher Befundbericht"},
		{Payer: entity.PayerOEGK, Pos: "46", Title: "Koordinationszuschlag"},
		{Payer: entity.PayerOEGK, Pos: "252", Title: "Langzeit-EKG über 24 Stunden"},
		{Payer: entity.PayerBVAEB, Pos: "B22", Title: "Befundbericht"},
	})
}

func TestDeriveAddons(t *testing.T) {
	idx := addonIndex()

	tests := []struct {
		name    string
		query   string
		payer   entity.Payer
		wantPos []string
	}{
		{
			name:    "first visit trigger",
			query:   "neuer Patient, Erstordination",
			payer:   entity.PayerOEGK,
			wantPos: []string{"2"},
		},
		{
			name:    "report trigger respects payer",
			query:   "Befund an den Facharzt",
			payer:   entity.PayerBVAEB,
			wantPos: []string{"B22"},
		},
		{
			name:    "multiple categories",
			query:   "Erstkontakt mit Befund und Holter",
			payer:   entity.PayerOEGK,
			wantPos: []string{"2", "22", "252"},
		},
		{
			name:    "no trigger no addons",
			query:   "Blutabnahme",
			payer:   entity.PayerOEGK,
			wantPos: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveAddons(textutil.Normalize(tt.query), tt.payer, idx)
			assert.Equal(t, tt.wantPos, positions(got))
		})
	}
}

func TestMergeCandidatesDeduplicates(t *testing.T) {
	candidates := []entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "2", Title: "Erstordination im Quartal"},
	}
	addons := []entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "2", Title: "Erstordination im Quartal"},
		{Payer: entity.PayerOEGK, Pos: "46", Title: "Koordinationszuschlag"},
	}

	merged := MergeCandidates(candidates, addons, 12)
	require.Len(t, merged, 2)
	assert.Equal(t, []string{"2", "46"}, positions(merged))
}

func TestMergeCandidatesKeepsLimit(t *testing.T) {
	var candidates []entity.CatalogEntry
	for i := 0; i < 12; i++ {
		candidates = append(candidates, entity.CatalogEntry{
			Payer: entity.PayerOEGK,
			Pos:   string(rune('a' + i)),
			Title: "Ordination",
		})
	}
	addons := []entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "22", Title: "Ausführlicher Befundbericht"},
	}

	merged := MergeCandidates(candidates, addons, 12)
	require.Len(t, merged, 12)
	// The add-on survives; the lowest-ranked base candidate makes room.
	assert.Equal(t, "22", merged[11].Pos)
	assert.Equal(t, "k", merged[10].Pos)
	assert.NotContains(t, positions(merged), "l")
}

func TestMergeCandidatesLimitBelowAddonCount(t *testing.T) {
	candidates := []entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "1", Title: "Ordination"},
	}
	addons := []entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "2", Title: "Erstordination im Quartal"},
		{Payer: entity.PayerOEGK, Pos: "22", Title: "Ausführlicher Befundbericht"},
		{Payer: entity.PayerOEGK, Pos: "46", Title: "Koordinationszuschlag"},
	}

	merged := MergeCandidates(candidates, addons, 2)
	assert.Equal(t, []string{"2", "22"}, positions(merged))
}
