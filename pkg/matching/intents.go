package matching

import (
	"regexp"
	"strings"
)

// Intent vocabulary. All lists are matched against normalized text.
var (
	psychTerms = []string{"psychiatr", "psychotherap", "psychisch", "psychosomat"}

	bloodDrawTerms = []string{"blutabnahme", "blutentnahme", "venenpunktion", "blut abnehmen", "blut abgenommen"}
	// Vocabulary used to narrow the candidate pool once a blood-draw intent
	// is established.
	bloodPoolTerms = []string{"blutentnahme", "blutabnahme", "vene", "kapillar", "venenpunktion"}

	venousTerms    = []string{"vene", "venoes", "venos"}
	capillaryTerms = []string{"kapillar", "kapillaer", "fingerbeere", "ohrlaeppchen"}

	conversationTerms = []string{"gespraech", "aussprache", "beratungsgespraech", "angehoerigengespraech", "kriseninterv"}

	urineTerms  = []string{"harnstreifen", "urinstreifen", "streifentest", "harntest", "urintest"}
	clinicTerms = []string{"ordination", "praxis", "vor ort"}
	labTerms    = []string{"labor", "einsendung", "eingesendet", "eingeschickt"}

	durationRe    = regexp.MustCompile(`\b\d+\s*(min|minuten|stunden?|std)\b`)
	durationAltRe = regexp.MustCompile(`\b(halbe|dreiviertel|viertel)\s*stunde\b`)
)

func containsAny(norm string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(norm, t) {
			return true
		}
	}
	return false
}

// HasPsychTerms reports whether the query itself uses psychiatric vocabulary.
func HasPsychTerms(norm string) bool { return containsAny(norm, psychTerms) }

// HasBloodDrawIntent reports a blood-draw service request.
func HasBloodDrawIntent(norm string) bool { return containsAny(norm, bloodDrawTerms) }

// SpecifiesVenous reports whether the query names a venous draw.
func SpecifiesVenous(norm string) bool { return containsAny(norm, venousTerms) }

// SpecifiesCapillary reports whether the query names a capillary draw.
func SpecifiesCapillary(norm string) bool { return containsAny(norm, capillaryTerms) }

// HasConversationIntent reports a therapeutic-conversation request.
func HasConversationIntent(norm string) bool { return containsAny(norm, conversationTerms) }

// HasUrineTestIntent reports a urine/strip-test request.
func HasUrineTestIntent(norm string) bool { return containsAny(norm, urineTerms) }

// SpecifiesSetting reports whether a urine test names the clinic or lab
// setting.
func SpecifiesSetting(norm string) bool {
	return containsAny(norm, clinicTerms) || containsAny(norm, labTerms)
}

// HasDuration reports whether the text carries a duration phrase such as
// "20 Minuten" or "halbe Stunde".
func HasDuration(norm string) bool {
	return durationRe.MatchString(norm) || durationAltRe.MatchString(norm)
}
