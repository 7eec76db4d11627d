package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer formats a statement can declare. Fixed at creation.
const (
	FormatVraiFaux = 2
	FormatQCM      = 4
)

func ValidFormat(f int) bool {
	return f == FormatVraiFaux || f == FormatQCM
}

// AffirmationModel is a gradable statement. is_correct_vf and
// reponse_correcte_qcm are advisory metadata for debriefing; they are
// range-checked but never reconciled against the format or against
// student responses.
type AffirmationModel struct {
	ID            uint       `gorm:"column:id;primaryKey" json:"id"`
	Text          string     `gorm:"column:affirmation;type:text;not null" json:"affirmation"`
	Explanation   *string    `gorm:"column:explication;type:text" json:"explication"`
	Format        int        `gorm:"column:nbr_reponses;not null" json:"nbr_reponses"`
	IsCorrectVF   *bool      `gorm:"column:is_correct_vf" json:"is_correct_vf"`
	CorrectChoice *int       `gorm:"column:reponse_correcte_qcm" json:"reponse_correcte_qcm"`
	EncadrantID   *uuid.UUID `gorm:"column:encadrant_id;type:uuid;index" json:"encadrant_id"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AffirmationModel) TableName() string {
	return "affirmations"
}
