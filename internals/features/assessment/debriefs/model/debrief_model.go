package model

import (
	"time"

	"github.com/google/uuid"
)

// DebriefModel is supervisor feedback tied to exactly one response.
// The unique index on response_id enforces the one-debrief invariant
// at the storage layer.
type DebriefModel struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Feedback    string    `gorm:"column:feedback;type:text;not null" json:"feedback"`
	ResponseID  uint      `gorm:"column:reponse_id;not null;uniqueIndex" json:"reponse_id"`
	EncadrantID uuid.UUID `gorm:"column:encadrant_id;type:uuid;not null;index" json:"encadrant_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DebriefModel) TableName() string {
	return "debriefs"
}
