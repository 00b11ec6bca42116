// Package gating constrains the external model: the prompt builder renders
// the candidate set as a strict allow-list, the validator rejects replies
// that name position codes outside of it.
package gating

import (
	"fmt"
	"strings"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
)

const systemInstructions = `Du bist eine Abrechnungsassistenz für eine österreichische Kassenordination.
Du hilfst, erbrachte Leistungen den korrekten Tarifpositionen zuzuordnen.

Regeln:
- Wähle ausschließlich Positionsnummern aus der untenstehenden Auswahlliste.
- Erfinde keine Positionsnummern und keine Tarife.
- Passt keine Position eindeutig, stelle eine kurze Rückfrage statt zu raten.
- Antworte knapp: Positionsnummer, Leistungstext und Punkte bzw. Betrag, dazu höchstens ein Satz Begründung.`

// BuildMessages assembles the chat history for one billing request: fixed
// instructions plus the allow-list, then the user's query.
func BuildMessages(prompt string, candidates []entity.CatalogEntry) []llm.Message {
	var sb strings.Builder
	sb.WriteString(systemInstructions)
	sb.WriteString("\n\nZulässige Tarifpositionen:\n")
	sb.WriteString(RenderAllowList(candidates))
	return []llm.Message{
		{Role: llm.RoleSystem, Content: sb.String()},
		{Role: llm.RoleUser, Content: prompt},
	}
}

// RenderAllowList serializes the candidate set, one line per entry.
func RenderAllowList(candidates []entity.CatalogEntry) string {
	var sb strings.Builder
	for _, e := range candidates {
		fmt.Fprintf(&sb, "- [%s] Pos. %s: %s (%s)", e.Payer, e.Pos, e.Title, e.Points)
		if e.Notes != "" {
			fmt.Fprintf(&sb, " — %s", e.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCandidateTable builds the locally generated clarification shown when
// the model reply fails validation.
func RenderCandidateTable(candidates []entity.CatalogEntry) string {
	var sb strings.Builder
	sb.WriteString("Die Antwort enthielt Positionsnummern außerhalb der zulässigen Auswahl. ")
	sb.WriteString("Bitte wählen Sie die passende Leistung:\n\n")
	sb.WriteString("| Kasse | Pos. | Leistung | Punkte/Betrag |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range candidates {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", e.Payer, e.Pos, e.Title, e.Points)
	}
	sb.WriteString("\nWelche dieser Positionen trifft zu?")
	return sb.String()
}
