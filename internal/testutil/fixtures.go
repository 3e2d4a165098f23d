package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/response_models"
)

var testVersionCounter atomic.Int64

// RomeConfig is a three-day trip used across tests.
func RomeConfig() response_models.TravelConfig {
	return response_models.TravelConfig{
		Destination:   "Rome",
		ArrivalDate:   "2024-05-01",
		DepartureDate: "2024-05-03",
		NumDays:       3,
		NumPeople:     2,
		TravelStyle:   "relaxed",
		Budget:        "medium",
		Interests:     []string{"history", "food"},
	}
}

func NewTestProject(t *testing.T, db *gorm.DB, name string) *db_models.Project {
	t.Helper()
	p := &db_models.Project{Name: name}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return p
}

// Note options
type NoteOption func(*db_models.Note)

func WithPriority(p int) NoteOption {
	return func(n *db_models.Note) {
		n.Priority = p
	}
}

func WithNoteContent(content string) NoteOption {
	return func(n *db_models.Note) {
		n.Content = content
	}
}

func NewTestNote(t *testing.T, db *gorm.DB, projectID uuid.UUID, title string, opts ...NoteOption) *db_models.Note {
	t.Helper()
	n := &db_models.Note{
		ProjectID: projectID,
		Title:     title,
		Content:   "Notes about " + title,
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	return n
}

func NewTestConfigNote(t *testing.T, db *gorm.DB, projectID uuid.UUID, cfg response_models.TravelConfig) *db_models.Note {
	t.Helper()
	n := &db_models.Note{
		ProjectID: projectID,
		Title:     "Trip configuration",
		Content:   "Trip to " + cfg.Destination,
		IsConfig:  true,
		Config:    &cfg,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create config note: %v", err)
	}
	return n
}

// Plan options
type PlanOption func(*db_models.Plan)

func WithVersionName(name string) PlanOption {
	return func(p *db_models.Plan) {
		p.VersionName = name
	}
}

func WithState(s db_models.PlanState) PlanOption {
	return func(p *db_models.Plan) {
		p.State = s
	}
}

func WithContent(c response_models.PlanContent) PlanOption {
	return func(p *db_models.Plan) {
		p.Content = c
	}
}

func WithCreatedAt(ms int64) PlanOption {
	return func(p *db_models.Plan) {
		p.CreatedAt = ms
	}
}

func NewTestPlan(t *testing.T, db *gorm.DB, projectID uuid.UUID, opts ...PlanOption) *db_models.Plan {
	t.Helper()
	p := &db_models.Plan{
		ProjectID:   projectID,
		VersionName: fmt.Sprintf("v%d", testVersionCounter.Add(1)),
		State:       db_models.PlanFresh,
		Source:      db_models.PlanSourceModel,
		Content: response_models.PlanContent{Days: []response_models.Day{{
			DayNumber: 1,
			Date:      "2024-05-01",
			Activities: []response_models.Activity{
				{Time: "09:00", Name: "Colosseum", Description: "Guided tour", Type: response_models.ActivitySightseeing},
			},
		}}},
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}
	return p
}
