package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripnotes/internal/config"
	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/internal/repositories"
	"tripnotes/pkg/completion"
	"tripnotes/pkg/metrics"
	"tripnotes/pkg/utils"
)

var errNoProvider = errors.New("no completion provider configured")

type GenerationServiceInterface interface {
	GeneratePlan(ctx context.Context, projectID string, versionName string) (*response_models.PlanResponse, error)
}

// GenerationService runs the generation pipeline: preconditions, prompt,
// streamed completion, parse or fallback, persist. Only precondition and
// persistence errors are returned; everything between the prompt and the
// insert degrades to the fallback plan.
type GenerationService struct {
	noteRepo      repositories.INoteRepository
	planRepo      repositories.IPlanRepository
	builder       *PromptBuilder
	provider      completion.Provider
	ingester      *completion.Ingester
	parser        *PlanParser
	metrics       *metrics.PlanMetrics
	logger        *zap.Logger
	maxPerProject int
	timeout       time.Duration
}

func NewGenerationService(
	noteRepo repositories.INoteRepository,
	planRepo repositories.IPlanRepository,
	builder *PromptBuilder,
	provider completion.Provider,
	ingester *completion.Ingester,
	parser *PlanParser,
	m *metrics.PlanMetrics,
	cfg *config.AppConfig,
	logger *zap.Logger,
) GenerationServiceInterface {
	return &GenerationService{
		noteRepo:      noteRepo,
		planRepo:      planRepo,
		builder:       builder,
		provider:      provider,
		ingester:      ingester,
		parser:        parser,
		metrics:       m,
		logger:        logger.With(zap.String(utils.FieldComponent, "generation")),
		maxPerProject: cfg.Plans.MaxPerProject,
		timeout:       cfg.CompletionTimeout(),
	}
}

func (g *GenerationService) GeneratePlan(ctx context.Context, projectID string, versionName string) (*response_models.PlanResponse, error) {
	start := time.Now()

	plan, err := g.generate(ctx, projectID, versionName)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrDatabaseError):
			g.metrics.ObserveGeneration(metrics.OutcomeError)
			g.logger.Error("generation failed",
				zap.String(utils.FieldProjectID, projectID),
				zap.Duration(utils.FieldDuration, time.Since(start)),
				zap.Error(err))
		default:
			g.metrics.ObserveGeneration(metrics.OutcomeRejected)
			g.logger.Info("generation rejected",
				zap.String(utils.FieldProjectID, projectID),
				zap.String(utils.FieldVersionName, versionName),
				zap.Error(err))
		}
		return nil, err
	}

	g.metrics.ObserveGeneration(string(plan.Source))
	g.logger.Info("plan generated",
		zap.String(utils.FieldProjectID, projectID),
		zap.String(utils.FieldPlanID, plan.ID.String()),
		zap.String(utils.FieldVersionName, plan.VersionName),
		zap.String(utils.FieldSource, string(plan.Source)),
		zap.Duration(utils.FieldDuration, time.Since(start)))
	return ToPlanResponse(plan), nil
}

func (g *GenerationService) generate(ctx context.Context, projectID string, versionName string) (*db_models.Plan, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	name := utils.NormalizeVersionName(versionName)
	if !utils.ValidVersionName(name) {
		return nil, fmt.Errorf("%w: version name must be 1-%d characters", utils.ErrInvalidInput, utils.MaxVersionNameLength)
	}

	count, err := g.planRepo.CountByProject(ctx, pid)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if count >= int64(g.maxPerProject) {
		return nil, utils.ErrPlanLimitExceeded
	}

	taken, err := g.planRepo.ExistsVersionName(ctx, pid, name, uuid.Nil)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if taken {
		return nil, utils.ErrVersionNameConflict
	}

	configNote, err := g.noteRepo.GetConfigNote(ctx, pid)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if configNote == nil || configNote.Config == nil {
		return nil, utils.ErrMissingConfiguration
	}
	travel := *configNote.Config
	if err := travel.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrMissingConfiguration, err)
	}

	notes, err := g.noteRepo.ListRegularNotes(ctx, pid)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}

	req, err := g.builder.Build(&travel, configNote.Content, notes)
	if err != nil {
		return nil, err
	}

	g.logger.Info("generation started",
		zap.String(utils.FieldProjectID, projectID),
		zap.String(utils.FieldVersionName, name),
		zap.Int("days", travel.NumDays),
		zap.Int("notes", len(notes)))

	raw, streamErr := g.streamCompletion(ctx, req)
	outcome := g.parser.Resolve(raw, travel)
	if outcome.Source == db_models.PlanSourceFallback && streamErr != nil {
		outcome.Reason = truncate(fmt.Sprintf("completion: %v; %s", streamErr, outcome.Reason), 255)
	}

	plan := &db_models.Plan{
		ProjectID:      pid,
		VersionName:    name,
		State:          db_models.PlanFresh,
		Source:         outcome.Source,
		FallbackReason: outcome.Reason,
		Content:        outcome.Content,
	}
	// The completion deadline does not apply to persistence.
	if err := g.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, utils.ErrVersionNameConflict) {
			return nil, err
		}
		return nil, utils.DatabaseError(err)
	}
	return plan, nil
}

// streamCompletion returns whatever text the provider produced before the
// stream ended, failed or timed out, along with the reason it stopped early.
func (g *GenerationService) streamCompletion(ctx context.Context, req completion.Request) (string, error) {
	if g.provider == nil {
		return "", errNoProvider
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	body, err := g.provider.StreamComplete(ctx, req)
	if err != nil {
		g.logger.Warn("completion request failed",
			zap.String(utils.FieldProvider, g.provider.Name()),
			zap.Error(err))
		return "", err
	}
	defer body.Close()

	res := g.ingester.Ingest(ctx, body)
	g.metrics.ObserveStream(g.provider.Name(), time.Since(start), len(res.Text))
	if res.Err != nil {
		g.logger.Warn("completion stream interrupted",
			zap.String(utils.FieldProvider, g.provider.Name()),
			zap.Int(utils.FieldBytes, len(res.Text)),
			zap.Error(res.Err))
	}
	return res.Text, res.Err
}
