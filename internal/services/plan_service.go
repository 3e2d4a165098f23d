package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"tripnotes/internal/config"
	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/request_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/internal/repositories"
	mem "tripnotes/pkg/memcache"
	"tripnotes/pkg/metrics"
	"tripnotes/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlan(ctx context.Context, planID string) (*response_models.PlanResponse, error)
	ListPlans(ctx context.Context, projectID string, query request_models.ListPlansQuery) (*response_models.PlanPage, error)
	RenamePlan(ctx context.Context, planID string, versionName string) (*response_models.PlanResponse, error)
	UpdatePlanContent(ctx context.Context, planID string, content response_models.PlanContent) (*response_models.PlanResponse, error)
	DeletePlan(ctx context.Context, planID string) error
	MarkProjectOutdated(ctx context.Context, projectID string) (int64, error)
	ComparePlans(ctx context.Context, plan1ID, plan2ID string) (*response_models.ComparisonResult, error)
}

type PlanService struct {
	planRepo        repositories.IPlanRepository
	compareCache    mem.Store[response_models.ComparisonResult]
	metrics         *metrics.PlanMetrics
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	compareTTL      time.Duration
}

func NewPlanService(
	planRepo repositories.IPlanRepository,
	compareCache mem.Store[response_models.ComparisonResult],
	m *metrics.PlanMetrics,
	cfg *config.AppConfig,
	logger *zap.Logger,
) PlanServiceInterface {
	return &PlanService{
		planRepo:        planRepo,
		compareCache:    compareCache,
		metrics:         m,
		logger:          logger.With(zap.String(utils.FieldComponent, "plan_service")),
		defaultPageSize: cfg.Plans.DefaultPageSize,
		maxPageSize:     cfg.Plans.MaxPageSize,
		compareTTL:      cfg.CompareCacheTTL(),
	}
}

func (p *PlanService) GetPlan(ctx context.Context, planID string) (*response_models.PlanResponse, error) {
	plan, err := p.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return ToPlanResponse(plan), nil
}

func (p *PlanService) ListPlans(ctx context.Context, projectID string, query request_models.ListPlansQuery) (*response_models.PlanPage, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	page := query.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = p.defaultPageSize
	}
	if pageSize < 1 || pageSize > p.maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = request_models.SortByCreatedAt
	}
	desc := query.Order != "asc"

	plans, total, err := p.planRepo.List(ctx, repositories.PlanFilter{
		ProjectID:       pid,
		IncludeOutdated: query.IncludeOutdated,
		SortBy:          sortBy,
		Desc:            desc,
		Offset:          (page - 1) * pageSize,
		Limit:           pageSize,
	})
	if err != nil {
		return nil, utils.DatabaseError(err)
	}

	items := make([]response_models.PlanSummary, 0, len(plans))
	for i := range plans {
		items = append(items, ToPlanSummary(&plans[i]))
	}
	return &response_models.PlanPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (p *PlanService) RenamePlan(ctx context.Context, planID string, versionName string) (*response_models.PlanResponse, error) {
	name := utils.NormalizeVersionName(versionName)
	if !utils.ValidVersionName(name) {
		return nil, fmt.Errorf("%w: version name must be 1-%d characters", utils.ErrInvalidInput, utils.MaxVersionNameLength)
	}

	plan, err := p.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.VersionName == name {
		return ToPlanResponse(plan), nil
	}

	taken, err := p.planRepo.ExistsVersionName(ctx, plan.ProjectID, name, plan.ID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if taken {
		return nil, utils.ErrVersionNameConflict
	}

	plan.VersionName = name
	if err := p.planRepo.UpdateVersionName(ctx, plan); err != nil {
		if errors.Is(err, utils.ErrVersionNameConflict) {
			return nil, err
		}
		return nil, utils.DatabaseError(err)
	}

	p.logger.Info("plan renamed",
		zap.String(utils.FieldPlanID, plan.ID.String()),
		zap.String(utils.FieldVersionName, name))
	return ToPlanResponse(plan), nil
}

// UpdatePlanContent replaces a plan's content after running it through the
// same shape checks and normalization as model output. The outdated flag
// is left alone.
func (p *PlanService) UpdatePlanContent(ctx context.Context, planID string, content response_models.PlanContent) (*response_models.PlanResponse, error) {
	plan, err := p.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	normalized, err := NormalizePlanContent(content, firstDate(plan.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrInvalidInput, err)
	}

	plan.Content = normalized
	if err := p.planRepo.UpdateContent(ctx, plan); err != nil {
		return nil, utils.DatabaseError(err)
	}
	return ToPlanResponse(plan), nil
}

func (p *PlanService) DeletePlan(ctx context.Context, planID string) error {
	id, err := parseID(planID)
	if err != nil {
		return err
	}
	deleted, err := p.planRepo.Delete(ctx, id)
	if err != nil {
		return utils.DatabaseError(err)
	}
	if !deleted {
		return utils.ErrPlanNotFound
	}
	p.logger.Info("plan deleted", zap.String(utils.FieldPlanID, planID))
	return nil
}

// MarkProjectOutdated is called once per configuration update and moves
// every fresh plan of the project to outdated.
func (p *PlanService) MarkProjectOutdated(ctx context.Context, projectID string) (int64, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return 0, err
	}
	affected, err := p.planRepo.MarkProjectOutdated(ctx, pid)
	if err != nil {
		p.logger.Error("mark plans outdated failed", zap.String(utils.FieldProjectID, projectID), zap.Error(err))
		return 0, utils.DatabaseError(err)
	}
	p.metrics.AddOutdated(affected)
	p.logger.Info("project plans outdated",
		zap.String(utils.FieldProjectID, projectID),
		zap.Int64("affected", affected))
	return affected, nil
}

func (p *PlanService) ComparePlans(ctx context.Context, plan1ID, plan2ID string) (*response_models.ComparisonResult, error) {
	plan1, err := p.loadPlan(ctx, plan1ID)
	if err != nil {
		return nil, err
	}
	plan2, err := p.loadPlan(ctx, plan2ID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%d|%s:%d", plan1.ID, plan1.UpdatedAt, plan2.ID, plan2.UpdatedAt)
	if p.compareCache != nil {
		if cached, ok := p.compareCache.Get(key); ok {
			p.metrics.ObserveCompare(true)
			return &cached, nil
		}
	}
	p.metrics.ObserveCompare(false)

	result := response_models.ComparisonResult{
		Plan1ID:     plan1.ID.String(),
		Plan1Name:   plan1.VersionName,
		Plan2ID:     plan2.ID.String(),
		Plan2Name:   plan2.VersionName,
		Differences: ComparePlanContents(plan1.Content, plan2.Content),
	}
	if p.compareCache != nil {
		p.compareCache.Set(key, result, p.compareTTL)
	}
	return &result, nil
}

func (p *PlanService) loadPlan(ctx context.Context, planID string) (*db_models.Plan, error) {
	id, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	plan, err := p.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", utils.ErrInvalidInput, s)
	}
	return id, nil
}

// NormalizePlanContent applies the parser's shape rules and normalization
// to client-supplied content. Missing dates continue from the first day's
// date, or from startDate when the first day has no usable date. Content
// that still has a day without a date is rejected.
func NormalizePlanContent(content response_models.PlanContent, startDate string) (response_models.PlanContent, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return response_models.PlanContent{}, err
	}
	var cfg response_models.TravelConfig
	cfg.ArrivalDate = startDate
	if len(content.Days) > 0 {
		if _, err := utils.ParseISODate(content.Days[0].Date); err == nil {
			cfg.ArrivalDate = content.Days[0].Date
		}
	}

	normalized, err := ParsePlan(string(raw), cfg)
	if err != nil {
		return response_models.PlanContent{}, err
	}
	for i, d := range normalized.Days {
		if d.Date == "" {
			return response_models.PlanContent{}, shapeErr(fmt.Sprintf("days[%d].date", i), "missing and no start date to continue from")
		}
	}
	return normalized, nil
}

// firstDate is the date the stored content starts on, if any.
func firstDate(content response_models.PlanContent) string {
	if len(content.Days) == 0 {
		return ""
	}
	return content.Days[0].Date
}

var planCopyOption = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: uuid.UUID{},
		DstType: copier.String,
		Fn: func(src interface{}) (interface{}, error) {
			return src.(uuid.UUID).String(), nil
		},
	}},
}

func ToPlanResponse(plan *db_models.Plan) *response_models.PlanResponse {
	resp := &response_models.PlanResponse{}
	_ = copier.CopyWithOption(resp, plan, planCopyOption)
	resp.IsOutdated = plan.State.IsOutdated()
	return resp
}

func ToPlanSummary(plan *db_models.Plan) response_models.PlanSummary {
	var summary response_models.PlanSummary
	_ = copier.CopyWithOption(&summary, plan, planCopyOption)
	summary.IsOutdated = plan.State.IsOutdated()
	summary.DayCount = len(plan.Content.Days)
	return summary
}
