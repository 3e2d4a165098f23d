package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripnotes/internal/models/db_models"
	"tripnotes/pkg/utils"
)

// PlanFilter selects one page of a project's plans.
type PlanFilter struct {
	ProjectID       uuid.UUID
	IncludeOutdated bool
	SortBy          string
	Desc            bool
	Offset          int
	Limit           int
}

var planSortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"version_name": "version_name",
}

type IPlanRepository interface {
	Create(ctx context.Context, plan *db_models.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	ExistsVersionName(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, filter PlanFilter) ([]db_models.Plan, int64, error)
	UpdateVersionName(ctx context.Context, plan *db_models.Plan) error
	UpdateContent(ctx context.Context, plan *db_models.Plan) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	MarkProjectOutdated(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a plan. The (project_id, version_name) unique index turns
// the loser of a concurrent insert into ErrVersionNameConflict.
func (p *PlanRepository) Create(ctx context.Context, plan *db_models.Plan) error {
	if err := p.db.WithContext(ctx).Create(plan).Error; err != nil {
		if isUniqueViolation(err) {
			return utils.ErrVersionNameConflict
		}
		return pkgerrors.Wrap(err, "create plan")
	}
	return nil
}

func (p *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get plan")
	}
	return &plan, nil
}

func (p *PlanRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count plans")
	}
	return count, nil
}

// ExistsVersionName matches name exactly. Pass uuid.Nil as excludeID to
// check against every plan of the project.
func (p *PlanRepository) ExistsVersionName(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	q := p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("project_id = ? AND version_name = ?", projectID, name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, pkgerrors.Wrap(err, "check version name")
	}
	return count > 0, nil
}

func (p *PlanRepository) List(ctx context.Context, filter PlanFilter) ([]db_models.Plan, int64, error) {
	q := p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("project_id = ?", filter.ProjectID)
	if !filter.IncludeOutdated {
		q = q.Where("state = ?", db_models.PlanFresh)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count plans")
	}

	column, ok := planSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}

	var plans []db_models.Plan
	err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.Desc}).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&plans).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list plans")
	}
	return plans, total, nil
}

// UpdateVersionName and UpdateContent write the given columns and a
// strictly increasing updated_at, which callers use as a version stamp.
func (p *PlanRepository) UpdateVersionName(ctx context.Context, plan *db_models.Plan) error {
	plan.UpdatedAt = nextStamp(plan.UpdatedAt)
	err := p.db.WithContext(ctx).
		Model(plan).
		Select("version_name", "updated_at").
		UpdateColumns(plan).Error
	if err != nil {
		if isUniqueViolation(err) {
			return utils.ErrVersionNameConflict
		}
		return pkgerrors.Wrap(err, "rename plan")
	}
	return nil
}

func (p *PlanRepository) UpdateContent(ctx context.Context, plan *db_models.Plan) error {
	plan.UpdatedAt = nextStamp(plan.UpdatedAt)
	err := p.db.WithContext(ctx).
		Model(plan).
		Select("content", "updated_at").
		UpdateColumns(plan).Error
	if err != nil {
		return pkgerrors.Wrap(err, "update plan content")
	}
	return nil
}

// Delete removes the row for good so its version name can be reused.
func (p *PlanRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := p.db.WithContext(ctx).Unscoped().Delete(&db_models.Plan{}, "id = ?", id)
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "delete plan")
	}
	return res.RowsAffected > 0, nil
}

// MarkProjectOutdated moves every fresh plan of the project to outdated in
// a single statement and reports how many rows changed.
func (p *PlanRepository) MarkProjectOutdated(ctx context.Context, projectID uuid.UUID) (int64, error) {
	res := p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("project_id = ? AND state = ?", projectID, db_models.PlanFresh).
		Updates(map[string]any{
			"state":      db_models.PlanFresh.Outdate(),
			"updated_at": utils.NowUnixMillis(),
		})
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "mark project plans outdated")
	}
	return res.RowsAffected, nil
}

func nextStamp(prev int64) int64 {
	now := utils.NowUnixMillis()
	if now <= prev {
		return prev + 1
	}
	return now
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
