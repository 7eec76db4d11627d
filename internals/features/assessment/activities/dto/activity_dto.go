package dto

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"troublemaker_backend/internals/features/assessment/activities/model"
	affirmationDto "troublemaker_backend/internals/features/assessment/affirmations/dto"
	userDto "troublemaker_backend/internals/features/users/user/dto"
)

// Activity codes: 1-9 uppercase alphanumerics, checked after
// normalization.
var codePattern = regexp.MustCompile(`^[A-Z0-9]{1,9}$`)

var ErrInvalidCode = errors.New("le code activité doit contenir entre 1 et 9 caractères alphanumériques majuscules")

// ============================
// Response DTOs
// ============================

type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"nom"`
}

type ActivityDTO struct {
	Code            string                          `json:"code_activite"`
	Title           string                          `json:"titre"`
	PublicIntro     *string                         `json:"presentation_publique"`
	Description     *string                         `json:"description"`
	Format          int                             `json:"type_affirmation_requise"`
	LearnerType     string                          `json:"type_apprenant"`
	Category        *CategoryDTO                    `json:"destine_a"`
	EncadrantID     uuid.UUID                       `json:"encadrant_id"`
	IsPublished     bool                            `json:"is_published"`
	CreatedAt       time.Time                       `json:"created_at"`
	Etudiants       []userDto.EtudiantListDTO       `json:"etudiants_autorises"`
	Affirmations    []affirmationDto.AffirmationDTO `json:"affirmations_associes"`
	NbrAffirmations int                             `json:"nbr_affirmations_associe"`
}

// ============================
// Request DTOs
// ============================

type CreateActivityRequest struct {
	Code            string      `json:"code_activite" validate:"required,min=1,max=9"`
	Title           string      `json:"titre" validate:"required,max=255"`
	PublicIntro     *string     `json:"presentation_publique"`
	Description     *string     `json:"description"`
	Format          int         `json:"type_affirmation_requise" validate:"required,oneof=2 4"`
	LearnerType     string      `json:"type_apprenant" validate:"omitempty,oneof=interne externe"`
	CategoryID      *uint       `json:"destine_a_id"`
	EtudiantIDs     []uuid.UUID `json:"etudiants_autorises_ids"`
	EtudiantsEmails string      `json:"etudiants_emails"`
	AffirmationIDs  []uint      `json:"affirmations_associes_ids"`
	IsPublished     bool        `json:"is_published"`
}

func (r *CreateActivityRequest) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Title = strings.TrimSpace(r.Title)
	if r.LearnerType == "" {
		r.LearnerType = model.LearnerInterne
	}
}

func (r *CreateActivityRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if !codePattern.MatchString(r.Code) {
		return ErrInvalidCode
	}
	return nil
}

// UpdateActivityRequest is a partial update; nil means "leave as is".
// The code is immutable and therefore absent here.
type UpdateActivityRequest struct {
	Title           *string     `json:"titre" validate:"omitempty,max=255"`
	PublicIntro     *string     `json:"presentation_publique"`
	Description     *string     `json:"description"`
	Format          *int        `json:"type_affirmation_requise" validate:"omitempty,oneof=2 4"`
	LearnerType     *string     `json:"type_apprenant" validate:"omitempty,oneof=interne externe"`
	CategoryID      *uint       `json:"destine_a_id"`
	EtudiantIDs     []uuid.UUID `json:"etudiants_autorises_ids"`
	EtudiantsEmails *string     `json:"etudiants_emails"`
	AffirmationIDs  []uint      `json:"affirmations_associes_ids"`
	IsPublished     *bool       `json:"is_published"`
}

// ============================
// Converters
// ============================

func ToActivityDTO(m model.ActivityModel) ActivityDTO {
	etudiants := make([]userDto.EtudiantListDTO, 0, len(m.Students))
	for _, s := range m.Students {
		etudiants = append(etudiants, userDto.ToEtudiantListDTO(s))
	}
	affirmations := make([]affirmationDto.AffirmationDTO, 0, len(m.Affirmations))
	for _, a := range m.Affirmations {
		affirmations = append(affirmations, affirmationDto.ToAffirmationDTO(a))
	}
	var category *CategoryDTO
	if m.Category != nil {
		category = &CategoryDTO{ID: m.Category.ID, Name: m.Category.Name}
	}
	return ActivityDTO{
		Code:            m.Code,
		Title:           m.Title,
		PublicIntro:     m.PublicIntro,
		Description:     m.Description,
		Format:          m.Format,
		LearnerType:     m.LearnerType,
		Category:        category,
		EncadrantID:     m.EncadrantID,
		IsPublished:     m.IsPublished,
		CreatedAt:       m.CreatedAt,
		Etudiants:       etudiants,
		Affirmations:    affirmations,
		NbrAffirmations: len(affirmations),
	}
}
