package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"troublemaker_backend/internals/features/assessment/affirmations/model"
)

type AffirmationDTO struct {
	ID            uint       `json:"id"`
	Text          string     `json:"affirmation"`
	Explanation   *string    `json:"explication"`
	Format        int        `json:"nbr_reponses"`
	IsCorrectVF   *bool      `json:"is_correct_vf"`
	CorrectChoice *int       `json:"reponse_correcte_qcm"`
	EncadrantID   *uuid.UUID `json:"encadrant_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CreateAffirmationRequest struct {
	Text          string  `json:"affirmation" validate:"required"`
	Explanation   *string `json:"explication"`
	Format        int     `json:"nbr_reponses" validate:"required,oneof=2 4"`
	IsCorrectVF   *bool   `json:"is_correct_vf"`
	CorrectChoice *int    `json:"reponse_correcte_qcm" validate:"omitempty,min=1,max=4"`

	// Optional: attach to one of the caller's activities on creation.
	ActivityCode *string `json:"activity_code"`
}

func (r *CreateAffirmationRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
	if r.ActivityCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.ActivityCode))
		r.ActivityCode = &code
	}
}

// UpdateAffirmationRequest never carries the format: it is fixed at
// creation.
type UpdateAffirmationRequest struct {
	Text          *string `json:"affirmation"`
	Explanation   *string `json:"explication"`
	IsCorrectVF   *bool   `json:"is_correct_vf"`
	CorrectChoice *int    `json:"reponse_correcte_qcm" validate:"omitempty,min=1,max=4"`
}

func ToAffirmationDTO(m model.AffirmationModel) AffirmationDTO {
	return AffirmationDTO{
		ID:            m.ID,
		Text:          m.Text,
		Explanation:   m.Explanation,
		Format:        m.Format,
		IsCorrectVF:   m.IsCorrectVF,
		CorrectChoice: m.CorrectChoice,
		EncadrantID:   m.EncadrantID,
		CreatedAt:     m.CreatedAt,
	}
}
