package matching

// serviceTerms is the vocabulary that marks a query as naming an actual
// medical service. A duration without any of these is not billable on its
// own and triggers a clarification upstream.
var serviceTerms = []string{
	"ordination", "visite", "hausbesuch",
	"gespraech", "aussprache", "beratung",
	"blutabnahme", "blutentnahme", "venenpunktion",
	"ekg", "spirometrie", "sonographie", "ultraschall",
	"impfung", "infusion", "injektion",
	"verband", "wundversorgung", "naht",
	"harn", "urin", "labor",
	"untersuchung", "vorsorge", "befund", "bericht",
	"therapie", "psychotherap", "psychiatr",
}

// HasServiceKeyword reports whether the normalized text names a recognized
// medical service.
func HasServiceKeyword(norm string) bool {
	return containsAny(norm, serviceTerms)
}

// fillerTokens carry no billing information and are ignored when deciding
// whether a query consists of a payer name only.
var fillerTokens = map[string]bool{
	"patient": true, "patientin": true,
	"bitte": true, "danke": true,
	"abrechnen": true, "abrechnung": true, "verrechnen": true, "verrechnung": true,
	"fuer": true, "bei": true, "ein": true, "eine": true, "einen": true,
	"der": true, "die": true, "das": true, "und": true, "mit": true,
	"versichert": true, "versicherter": true, "versicherte": true,
}

// IsPayerOnly reports whether the query names a payer and nothing else of
// substance.
func IsPayerOnly(norm string, tokens []string) bool {
	if DetectPayer(norm) == "" {
		return false
	}
	for _, tok := range tokens {
		if fillerTokens[tok] {
			continue
		}
		if DetectPayer(tok) != "" {
			continue
		}
		return false
	}
	return true
}
