package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BeatricePi/MeinePraxisKI/internal/dto"
	"github.com/BeatricePi/MeinePraxisKI/internal/pkg/logger"
	"github.com/BeatricePi/MeinePraxisKI/internal/repository/contract"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/clarify"
	"github.com/BeatricePi/MeinePraxisKI/pkg/gating"
	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
	"github.com/BeatricePi/MeinePraxisKI/pkg/matching"
	"github.com/BeatricePi/MeinePraxisKI/pkg/textutil"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrNoCandidates  = errors.New("keine passende Tarifposition gefunden, bitte beschreiben Sie die Leistung genauer")
	ErrNotConfigured = errors.New("server is not configured (OPENAI_API_KEY missing)")
)

// IBillingService turns a free-text billing query into a constrained model
// suggestion or a clarification question.
type IBillingService interface {
	Abrechnen(ctx context.Context, sessionKey string, req *dto.AbrechnenRequest) (*dto.AbrechnenResponse, error)
}

type billingService struct {
	index    *catalog.Index
	finder   *matching.Finder
	provider llm.Provider // nil when no API key is configured
	pending  contract.PendingRepository
	log      logger.ILogger
	validate *validator.Validate
}

func NewBillingService(
	index *catalog.Index,
	finder *matching.Finder,
	provider llm.Provider,
	pending contract.PendingRepository,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		index:    index,
		finder:   finder,
		provider: provider,
		pending:  pending,
		log:      log,
		validate: validator.New(),
	}
}

// Abrechnen runs the pipeline: pending merge → normalize → payer detection →
// candidate search → add-on merge → clarification check → model call →
// reply validation.
func (s *billingService) Abrechnen(ctx context.Context, sessionKey string, req *dto.AbrechnenRequest) (*dto.AbrechnenResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrEmptyPrompt
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	// An open clarification for this identity: the new input answers it, so
	// both are evaluated together and the pending entry is cleared.
	if pendingQ, found, err := s.pending.Get(ctx, sessionKey); err != nil {
		s.log.Warn("billing", "pending lookup failed", map[string]interface{}{"error": err.Error()})
	} else if found {
		prompt = pendingQ.Prompt + "\n" + prompt
		if err := s.pending.Delete(ctx, sessionKey); err != nil {
			s.log.Warn("billing", "pending delete failed", map[string]interface{}{"error": err.Error()})
		}
	}

	norm := textutil.Normalize(prompt)
	payer := matching.DetectPayer(norm)

	candidates := s.finder.Find(norm, payer)
	candidates = matching.MergeCandidates(candidates, matching.DeriveAddons(norm, payer, s.index), s.finder.Limit())

	s.log.Info("billing", "candidates selected", map[string]interface{}{
		"payer":      string(payer),
		"candidates": len(candidates),
	})

	decision, question, rule := clarify.Evaluate(clarify.Input{
		Norm:       norm,
		Payer:      payer,
		Candidates: candidates,
	})
	if decision == clarify.NeedsClarification {
		s.storePending(ctx, sessionKey, prompt)
		s.log.Info("billing", "clarification issued", map[string]interface{}{"rule": rule})
		if rule == "no_candidates" {
			return nil, ErrNoCandidates
		}
		return &dto.AbrechnenResponse{Output: question}, nil
	}

	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	result, err := s.provider.Chat(ctx, gating.BuildMessages(prompt, candidates))
	if err != nil {
		s.log.Error("billing", "model call failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	verdict := gating.ValidateReply(result.Content, candidates)
	if !verdict.OK {
		s.log.Warn("billing", "model reply rejected", map[string]interface{}{"unknown_codes": verdict.Unknown})
		s.storePending(ctx, sessionKey, prompt)
		return &dto.AbrechnenResponse{Output: verdict.Output, Usage: result.Usage}, nil
	}

	return &dto.AbrechnenResponse{Output: result.Content, Usage: result.Usage}, nil
}

func (s *billingService) storePending(ctx context.Context, sessionKey, prompt string) {
	q := &contract.PendingQuestion{Prompt: prompt, CreatedAt: time.Now()}
	if err := s.pending.Set(ctx, sessionKey, q); err != nil {
		s.log.Warn("billing", "pending store failed", map[string]interface{}{"error": err.Error()})
	}
}
