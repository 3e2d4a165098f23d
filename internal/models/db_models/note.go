package db_models

import (
	"github.com/google/uuid"

	"tripnotes/internal/models/response_models"
)

// Note is written by the note subsystem. At most one note per project has
// IsConfig set; that note carries the structured trip configuration.
type Note struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;index"`
	Title     string
	Content   string `gorm:"type:text"`
	Priority  int    `gorm:"default:0"`
	IsConfig  bool   `gorm:"index"`

	Config *response_models.TravelConfig `gorm:"serializer:json;type:text"`
}
