package gating

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
)

var gatedCandidates = []entity.CatalogEntry{
	{Payer: entity.PayerOEGK, Pos: "300", Title: "Blutentnahme aus der Vene", Points: "3,21 €"},
	{Payer: entity.PayerOEGK, Pos: "33", Title: "Therapeutische Aussprache", Points: "14,60 €"},
	{Payer: entity.PayerBVAEB, Pos: "B10", Title: "Blutentnahme aus der Vene", Points: "12 Punkte"},
}

func TestValidateReplyAcceptsListedCodes(t *testing.T) {
	reply := "Pos. 300: Blutentnahme aus der Vene (3,21 €)."
	v := ValidateReply(reply, gatedCandidates)
	assert.True(t, v.OK)
	assert.Equal(t, reply, v.Output)
	assert.Empty(t, v.Unknown)
}

func TestValidateReplyRejectsUnlistedCode(t *testing.T) {
	v := ValidateReply("Ich empfehle Pos. 999 zusätzlich zu Pos. 300.", gatedCandidates)
	assert.False(t, v.OK)
	assert.Equal(t, []string{"999"}, v.Unknown)
	// The substitute is the locally generated candidate table.
	assert.Contains(t, v.Output, "| 300 |")
	assert.Contains(t, v.Output, "zulässigen Auswahl")
	assert.NotContains(t, v.Output, "999")
}

func TestValidateReplyAlphanumericCodes(t *testing.T) {
	v := ValidateReply("Pos. B10 passt hier.", gatedCandidates)
	assert.True(t, v.OK)

	v = ValidateReply("Pos. C7 passt hier.", gatedCandidates)
	assert.False(t, v.OK)
	assert.Equal(t, []string{"C7"}, v.Unknown)
}

func TestValidateReplySkipsQuantities(t *testing.T) {
	reply := "Pos. 33 für ein Gespräch über 20 Minuten, dokumentiert um 9 Uhr, 14,60 € laut Tarif."
	v := ValidateReply(reply, gatedCandidates)
	assert.True(t, v.OK, "durations, times and prices are not position codes: %v", v.Unknown)
}

func TestValidateReplyCaseInsensitiveCodes(t *testing.T) {
	v := ValidateReply("Pos. b10 passt.", gatedCandidates)
	assert.True(t, v.OK)
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("ÖGK Blutabnahme aus der Vene", gatedCandidates)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Zulässige Tarifpositionen:")
	assert.Contains(t, msgs[0].Content, "Pos. 300: Blutentnahme aus der Vene")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "ÖGK Blutabnahme aus der Vene", msgs[1].Content)
}

func TestRenderAllowListOneLinePerEntry(t *testing.T) {
	list := RenderAllowList(gatedCandidates)
	assert.Equal(t, len(gatedCandidates), strings.Count(list, "\n"))
	assert.Contains(t, list, "[BVAEB] Pos. B10")
}
