package entity

// PreferRule biases candidate ranking: when the rule matches the normalized
// query text, the listed position codes are moved to the front of the result.
type PreferRule struct {
	Payer   string   `json:"payer,omitempty"`
	WhenAll []string `json:"when_all,omitempty"`
	WhenAny []string `json:"when_any,omitempty"`
	Prefer  []string `json:"prefer"`
}
