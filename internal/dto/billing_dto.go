package dto

import "github.com/BeatricePi/MeinePraxisKI/pkg/llm"

type AbrechnenRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// AbrechnenResponse is returned both for model suggestions and for locally
// generated clarifications, keeping the caller's happy path uniform.
type AbrechnenResponse struct {
	Output string     `json:"output"`
	Usage  *llm.Usage `json:"usage,omitempty"`
}

type HealthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// CheckResponse reports configuration presence only, never secret values.
type CheckResponse struct {
	OpenAIKeyPresent  bool   `json:"openai_key_present"`
	OpenAIKeyPreview  string `json:"openai_key_preview,omitempty"`
	JWTSecretPresent  bool   `json:"jwt_secret_present"`
	AllowedEmailCount int    `json:"allowed_email_count"`
	Model             string `json:"model"`
	CatalogEntries    int    `json:"catalog_entries"`
	PendingStore      string `json:"pending_store"`
	RedisURLPresent   bool   `json:"redis_url_present"`
}
