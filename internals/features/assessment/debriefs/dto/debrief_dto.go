package dto

import (
	"time"

	"github.com/google/uuid"

	"troublemaker_backend/internals/features/assessment/debriefs/model"
)

type DebriefDTO struct {
	ID          uint      `json:"id"`
	Feedback    string    `json:"feedback"`
	ResponseID  uint      `json:"reponse_id"`
	EncadrantID uuid.UUID `json:"encadrant_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateDebriefRequest struct {
	Feedback   string `json:"feedback" validate:"required"`
	ResponseID uint   `json:"reponse_id" validate:"required"`
}

type UpdateDebriefRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

func ToDebriefDTO(m model.DebriefModel) DebriefDTO {
	return DebriefDTO{
		ID:          m.ID,
		Feedback:    m.Feedback,
		ResponseID:  m.ResponseID,
		EncadrantID: m.EncadrantID,
		CreatedAt:   m.CreatedAt,
	}
}
