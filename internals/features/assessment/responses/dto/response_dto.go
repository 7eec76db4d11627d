package dto

import (
	"time"

	"github.com/google/uuid"

	"troublemaker_backend/internals/features/assessment/responses/model"
)

// ============================
// Response DTO
// ============================

type ResponseDTO struct {
	ID            uint      `json:"id"`
	ActivityCode  string    `json:"activite"`
	AffirmationID uint      `json:"affirmation"`
	EtudiantID    uuid.UUID `json:"etudiant"`
	ReponseVF     *bool     `json:"reponse_vf"`
	ReponseQCM    *int      `json:"reponse_choisie_qcm"`
	Justification *string   `json:"justification"`
	Timestamp     time.Time `json:"timestamp"`
}

// ============================
// Submit Request DTO
// ============================

// SubmitResponseRequest is the student submission payload. Both answer
// fields nullable: null/null is an explicit "no answer".
type SubmitResponseRequest struct {
	ActivityCode  string  `json:"activite" validate:"required,min=1,max=9"`
	AffirmationID uint    `json:"affirmation" validate:"required"`
	ReponseVF     *bool   `json:"reponse_vf"`
	ReponseQCM    *int    `json:"reponse_choisie_qcm"`
	Justification *string `json:"justification"`
}

// UpdateResponseRequest edits the answer of an existing response by id.
// The triple (activity, affirmation, student) is immutable.
type UpdateResponseRequest struct {
	ReponseVF     *bool   `json:"reponse_vf"`
	ReponseQCM    *int    `json:"reponse_choisie_qcm"`
	Justification *string `json:"justification"`
}

// ============================
// Converter
// ============================

func ToResponseDTO(m model.ResponseModel) ResponseDTO {
	return ResponseDTO{
		ID:            m.ID,
		ActivityCode:  m.ActivityCode,
		AffirmationID: m.AffirmationID,
		EtudiantID:    m.EtudiantID,
		ReponseVF:     m.ReponseVF,
		ReponseQCM:    m.ReponseQCM,
		Justification: m.Justification,
		Timestamp:     m.SubmittedAt,
	}
}
