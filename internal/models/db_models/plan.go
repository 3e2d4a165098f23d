package db_models

import (
	"github.com/google/uuid"

	"tripnotes/internal/models/response_models"
)

// PlanState is one-way: a fresh plan can become outdated, never the
// reverse. A fresh plan after a configuration change is always a new row.
type PlanState string

const (
	PlanFresh    PlanState = "fresh"
	PlanOutdated PlanState = "outdated"
)

// Outdate is the only defined transition.
func (s PlanState) Outdate() PlanState {
	return PlanOutdated
}

func (s PlanState) IsOutdated() bool {
	return s == PlanOutdated
}

// PlanSource records whether the content came from the model or from the
// deterministic fallback.
type PlanSource string

const (
	PlanSourceModel    PlanSource = "model"
	PlanSourceFallback PlanSource = "fallback"
)

type Plan struct {
	BaseModel
	ProjectID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_plan_project_version,priority:1"`
	VersionName    string                      `gorm:"size:50;not null;uniqueIndex:idx_plan_project_version,priority:2"`
	State          PlanState                   `gorm:"size:16;not null;default:fresh;index"`
	Source         PlanSource                  `gorm:"size:16;not null;default:model"`
	FallbackReason string                      `gorm:"size:255"`
	Content        response_models.PlanContent `gorm:"serializer:json;type:text"`
}
