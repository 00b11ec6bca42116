// Package clarify decides whether a billing query is specific enough to be
// sent to the model, and produces the follow-up question when it is not.
//
// The decision is a declarative rule table evaluated in order; the first
// matching rule wins. Rules only read the request, they never call out.
package clarify

import (
	"strings"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/pkg/matching"
)

// Decision is the outcome of the heuristic.
type Decision int

const (
	Proceed Decision = iota
	NeedsClarification
)

// Input carries everything a rule may inspect.
type Input struct {
	Norm       string
	Payer      entity.Payer
	Candidates []entity.CatalogEntry
}

// Rule pairs a predicate with the question asked when it fires.
type Rule struct {
	Name     string
	When     func(Input) bool
	Question string
}

// Rules is the ordered clarification table.
var Rules = []Rule{
	{
		Name: "duration_without_service",
		When: func(in Input) bool {
			return matching.HasDuration(in.Norm) && !matching.HasServiceKeyword(in.Norm)
		},
		Question: "Welche Leistung wurde in dieser Zeit erbracht (z. B. Gespräch, Ordination, Untersuchung)?",
	},
	{
		Name: "payer_only",
		When: func(in Input) bool {
			return matching.IsPayerOnly(in.Norm, tokens(in.Norm))
		},
		Question: "Welche Leistung soll für diese Kasse abgerechnet werden?",
	},
	{
		Name: "blood_draw_without_type",
		When: func(in Input) bool {
			return matching.HasBloodDrawIntent(in.Norm) &&
				!matching.SpecifiesVenous(in.Norm) && !matching.SpecifiesCapillary(in.Norm)
		},
		Question: "Wurde das Blut venös oder kapillar abgenommen?",
	},
	{
		Name: "blood_draw_without_payer",
		When: func(in Input) bool {
			return matching.HasBloodDrawIntent(in.Norm) && in.Payer == entity.PayerUnknown
		},
		Question: "Bei welcher Kasse ist die Patientin bzw. der Patient versichert (ÖGK, BVAEB, SVS, KUF)?",
	},
	{
		Name: "conversation_without_duration",
		When: func(in Input) bool {
			return matching.HasConversationIntent(in.Norm) && !matching.HasDuration(in.Norm)
		},
		Question: "Wie lange hat das Gespräch gedauert (in Minuten)?",
	},
	{
		Name: "urine_test_without_setting",
		When: func(in Input) bool {
			return matching.HasUrineTestIntent(in.Norm) && !matching.SpecifiesSetting(in.Norm)
		},
		Question: "Wurde der Harnstreifentest in der Ordination durchgeführt oder ins Labor eingesendet?",
	},
	{
		Name: "no_candidates",
		When: func(in Input) bool {
			return len(in.Candidates) == 0
		},
		Question: "Dazu wurde keine passende Tarifposition gefunden. Können Sie die Leistung genauer beschreiben?",
	},
}

// Evaluate runs the rule table. On NeedsClarification it returns the fired
// rule's name and question.
func Evaluate(in Input) (Decision, string, string) {
	for _, r := range Rules {
		if r.When(in) {
			return NeedsClarification, r.Question, r.Name
		}
	}
	return Proceed, "", ""
}

func tokens(norm string) []string {
	return strings.Fields(norm)
}
