// Package matching implements payer detection, intent classification and the
// candidate search over the tariff catalog.
package matching

import (
	"regexp"

	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
)

// Patterns run against normalized text, so umlauts are already folded
// (ÖGK → oegk). Checked in fixed priority order; first match wins.
var payerPatterns = []struct {
	payer entity.Payer
	re    *regexp.Regexp
}{
	{entity.PayerOEGK, regexp.MustCompile(`\b(oegk|gkk|gebietskrankenkasse|gesundheitskasse)\b`)},
	{entity.PayerBVAEB, regexp.MustCompile(`\b(bvaeb|bva|vaeb|eisenbahner?|beamten?versicherung)\b`)},
	{entity.PayerSVS, regexp.MustCompile(`\b(svs|sva|svb|gewerbetreibende\w*|bauern|selbststaendige\w*)\b`)},
	{entity.PayerKUF, regexp.MustCompile(`\b(kuf|lkuf|bkuf|unfallfuersorge)\b`)},
	{entity.PayerMedrech, regexp.MustCompile(`\b(medrech|privat\w*|wahlarzt\w*|wahlaerztin\w*)\b`)},
}

// DetectPayer classifies normalized query text as one of the supported
// insurers. Returns PayerUnknown when nothing matches; never fails.
func DetectPayer(norm string) entity.Payer {
	for _, p := range payerPatterns {
		if p.re.MatchString(norm) {
			return p.payer
		}
	}
	return entity.PayerUnknown
}
