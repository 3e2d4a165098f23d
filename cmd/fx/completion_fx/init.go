package completion_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripnotes/internal/config"
	"tripnotes/internal/services"
	"tripnotes/pkg/completion"
	"tripnotes/pkg/utils"
)

var Module = fx.Provide(
	ProvideCompletionProvider,
	ProvideIngester,
	ProvidePromptBuilder,
	ProvidePlanParser,
)

// ProvideCompletionProvider picks the streaming provider from configuration.
// A missing API key is logged, not fatal: every generation then falls back
// to the skeleton plan.
func ProvideCompletionProvider(lc fx.Lifecycle, cfg *config.AppConfig, logger *zap.Logger) (completion.Provider, error) {
	c := cfg.Completion
	if c.APIKey == "" {
		logger.Warn("completion api key is empty; plans will use the fallback generator",
			zap.String(utils.FieldProvider, c.Provider))
	}

	logger.Info("initializing completion provider",
		zap.String(utils.FieldProvider, c.Provider),
		zap.String(utils.FieldModel, c.Model))

	switch strings.ToLower(c.Provider) {
	case "openai":
		return completion.NewOpenAIProvider(completion.OpenAIConfig{
			BaseURL:     c.BaseURL,
			APIKey:      c.APIKey,
			Model:       c.Model,
			Temperature: c.Temperature,
		}), nil
	case "gemini":
		p, err := completion.NewGeminiProvider(context.Background(), completion.GeminiConfig{
			APIKey:      c.APIKey,
			Model:       c.Model,
			Temperature: c.Temperature,
		})
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return p.Close()
			},
		})
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s. Use 'openai' or 'gemini'", c.Provider)
	}
}

func ProvideIngester(logger *zap.Logger) *completion.Ingester {
	return completion.NewIngester(logger.With(zap.String(utils.FieldComponent, "ingester")))
}

func ProvidePromptBuilder(cfg *config.AppConfig) *services.PromptBuilder {
	return services.NewPromptBuilder(cfg.Plans.MaxActivitiesPerDay, cfg.Plans.DetailedDaysThreshold)
}

func ProvidePlanParser(logger *zap.Logger) *services.PlanParser {
	return services.NewPlanParser(logger)
}
