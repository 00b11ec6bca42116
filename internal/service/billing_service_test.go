package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatricePi/MeinePraxisKI/internal/dto"
	"github.com/BeatricePi/MeinePraxisKI/internal/entity"
	"github.com/BeatricePi/MeinePraxisKI/internal/repository/memory"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
	"github.com/BeatricePi/MeinePraxisKI/pkg/matching"
)

type fakeProvider struct {
	reply        string
	err          error
	calls        int
	lastMessages []llm.Message
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (*llm.Result, error) {
	f.calls++
	f.lastMessages = history
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{
		Content: f.reply,
		Usage:   &llm.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func serviceIndex() *catalog.Index {
	return catalog.NewIndex([]entity.CatalogEntry{
		{Payer: entity.PayerOEGK, Pos: "1", Title: "Ordination", Points: "6,90 €"},
		{Payer: entity.PayerOEGK, Pos: "33", Title: "Therapeutische Aussprache", Points: "14,60 €"},
		{Payer: entity.PayerOEGK, Pos: "300", Title: "Blutentnahme aus der Vene", Points: "3,21 €"},
		{Payer: entity.PayerOEGK, Pos: "301", Title: "Kapillare Blutentnahme", Points: "2,05 €"},
	})
}

func newTestService(provider llm.Provider, ttl time.Duration) IBillingService {
	idx := serviceIndex()
	finder := matching.NewFinder(idx, matching.SynonymMap{"blutabnahme": {"blutentnahme"}}, nil, matching.FinderConfig{})
	return NewBillingService(idx, finder, provider, memory.NewPendingRepository(ttl), nopLogger{})
}

func TestAbrechnenEmptyPrompt(t *testing.T) {
	svc := newTestService(&fakeProvider{}, time.Minute)

	_, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: ""})
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "   "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestAbrechnenDurationOnlyClarifiesWithoutModelCall(t *testing.T) {
	provider := &fakeProvider{reply: "Pos. 33"}
	svc := newTestService(provider, time.Minute)

	res, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "20 Minuten"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "Leistung")
	assert.Nil(t, res.Usage)
	assert.Zero(t, provider.calls, "clarifications must not reach the model")
}

func TestAbrechnenVenousShortcutConstrainsAllowList(t *testing.T) {
	provider := &fakeProvider{reply: "Pos. 300: Blutentnahme aus der Vene (3,21 €)"}
	svc := newTestService(provider, time.Minute)

	res, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutentnahme aus der Vene"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "300")
	require.Equal(t, 1, provider.calls)

	// The deterministic shortcut leaves exactly one entry in the allow-list.
	require.Len(t, provider.lastMessages, 2)
	system := provider.lastMessages[0].Content
	assert.Contains(t, system, "Pos. 300: Blutentnahme aus der Vene")
	assert.NotContains(t, system, "Pos. 301")
	assert.NotNil(t, res.Usage)
}

func TestAbrechnenAllowListRespectsLimitAfterAddons(t *testing.T) {
	// More near-identical matches than the limit allows, plus an add-on
	// trigger in the query: the rendered allow-list must stay capped.
	entries := make([]entity.CatalogEntry, 0, 14)
	for i := 1; i <= 13; i++ {
		entries = append(entries, entity.CatalogEntry{
			Payer:  entity.PayerOEGK,
			Pos:    fmt.Sprintf("10%d", i),
			Title:  fmt.Sprintf("Ordination Variante %d", i),
			Points: "6,90 €",
		})
	}
	entries = append(entries, entity.CatalogEntry{
		Payer: entity.PayerOEGK, Pos: "22", Title: "Ausführlicher Befundbericht", Points: "10,40 €",
	})
	idx := catalog.NewIndex(entries)
	finder := matching.NewFinder(idx, nil, nil, matching.FinderConfig{Limit: 12})
	provider := &fakeProvider{reply: "Pos. 101"}
	svc := NewBillingService(idx, finder, provider, memory.NewPendingRepository(time.Minute), nopLogger{})

	_, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Ordination mit Befund"})
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	system := provider.lastMessages[0].Content
	assert.Equal(t, 12, strings.Count(system, "- [ÖGK]"))
	assert.Contains(t, system, "Pos. 22: Ausführlicher Befundbericht")
}

func TestAbrechnenValidatorSubstitutesUnlistedCodes(t *testing.T) {
	provider := &fakeProvider{reply: "Ich empfehle Pos. 999."}
	svc := newTestService(provider, time.Minute)

	res, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutentnahme aus der Vene"})
	require.NoError(t, err)
	assert.NotContains(t, res.Output, "999")
	assert.Contains(t, res.Output, "zulässigen Auswahl")
	assert.Contains(t, res.Output, "300")
}

func TestAbrechnenPendingConcatenation(t *testing.T) {
	provider := &fakeProvider{reply: "Pos. 300: Blutentnahme aus der Vene"}
	svc := newTestService(provider, time.Minute)
	ctx := context.Background()

	// Blood draw without venous/capillary: clarification, no model call.
	res, err := svc.Abrechnen(ctx, "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutabnahme"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "venös")
	assert.Zero(t, provider.calls)

	// The answer is concatenated to the pending query and proceeds.
	res, err = svc.Abrechnen(ctx, "user-1", &dto.AbrechnenRequest{Prompt: "venös"})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Contains(t, res.Output, "300")
	assert.Contains(t, provider.lastMessages[1].Content, "ÖGK Blutabnahme")

	// The pending entry was cleared: a fresh vague query clarifies again.
	_, err = svc.Abrechnen(ctx, "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutabnahme"})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestAbrechnenPendingExpires(t *testing.T) {
	provider := &fakeProvider{reply: "Pos. 33"}
	svc := newTestService(provider, 20*time.Millisecond)
	ctx := context.Background()

	res, err := svc.Abrechnen(ctx, "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutabnahme"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "venös")

	time.Sleep(40 * time.Millisecond)

	// After the TTL the follow-up is a fresh, unrelated query: a bare
	// duration now asks for the service, not for the blood-draw type.
	res, err = svc.Abrechnen(ctx, "user-1", &dto.AbrechnenRequest{Prompt: "20 Minuten"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "Leistung")
	assert.NotContains(t, res.Output, "venös")
	assert.Zero(t, provider.calls)
}

func TestAbrechnenNoCandidates(t *testing.T) {
	provider := &fakeProvider{reply: "irrelevant"}
	svc := newTestService(provider, time.Minute)

	_, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "Raumschiffwartung für ÖGK Patienten"})
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, provider.calls)
}

func TestAbrechnenNotConfigured(t *testing.T) {
	svc := newTestService(nil, time.Minute)

	_, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutentnahme aus der Vene"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAbrechnenUpstreamErrorSurfaces(t *testing.T) {
	provider := &fakeProvider{err: &llm.UpstreamError{StatusCode: 429, Message: "rate limited"}}
	svc := newTestService(provider, time.Minute)

	_, err := svc.Abrechnen(context.Background(), "user-1", &dto.AbrechnenRequest{Prompt: "ÖGK Blutentnahme aus der Vene"})
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 429, upstream.StatusCode)
}
