package bootstrap

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/BeatricePi/MeinePraxisKI/internal/config"
	"github.com/BeatricePi/MeinePraxisKI/internal/controller"
	"github.com/BeatricePi/MeinePraxisKI/internal/pkg/logger"
	"github.com/BeatricePi/MeinePraxisKI/internal/repository/contract"
	"github.com/BeatricePi/MeinePraxisKI/internal/repository/memory"
	"github.com/BeatricePi/MeinePraxisKI/internal/repository/redisstore"
	"github.com/BeatricePi/MeinePraxisKI/internal/service"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
	llmopenai "github.com/BeatricePi/MeinePraxisKI/pkg/llm/openai"
	"github.com/BeatricePi/MeinePraxisKI/pkg/matching"
)

type Container struct {
	BillingController controller.IBillingController
	SystemController  controller.ISystemController
	Logger            logger.ILogger
}

func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProd())

	// Static artifacts, read once.
	index, err := catalog.LoadIndex(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	synonyms, err := catalog.LoadSynonyms(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	rules, err := catalog.LoadRules(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	log.Info("bootstrap", "catalog loaded", map[string]interface{}{
		"entries":  index.Len(),
		"synonyms": len(synonyms),
		"rules":    len(rules),
	})

	finder := matching.NewFinder(index, synonyms, rules, matching.FinderConfig{
		Limit: cfg.Matching.MaxCandidates,
	})

	pending, err := newPendingRepository(cfg)
	if err != nil {
		return nil, err
	}

	var provider llm.Provider
	if cfg.OpenAI.APIKey != "" {
		provider = llmopenai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Warn("bootstrap", "OPENAI_API_KEY not set, model calls will fail", nil)
	}

	billingService := service.NewBillingService(index, finder, provider, pending, log)

	return &Container{
		BillingController: controller.NewBillingController(billingService),
		SystemController:  controller.NewSystemController(cfg, index),
		Logger:            log,
	}, nil
}

func newPendingRepository(cfg *config.Config) (contract.PendingRepository, error) {
	switch cfg.Pending.Store {
	case "", "memory":
		return memory.NewPendingRepository(cfg.Pending.TTL), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.Pending.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return redisstore.NewPendingRepository(redis.NewClient(opts), cfg.Pending.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported pending store: %s", cfg.Pending.Store)
	}
}
