package model

import (
	"time"

	"github.com/google/uuid"
)

// ResponseModel is a student's recorded answer to one statement within
// one activity. The unique index on the triple is what makes the
// submission upsert safe under concurrent duplicates; at most one of
// the two answer columns is ever non-null (both null means an explicit
// "no answer"). submitted_at is set once at creation and preserved
// when the answer is replaced.
type ResponseModel struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	ActivityCode  string    `gorm:"column:activite;size:9;not null;uniqueIndex:uq_responses_triple" json:"activite"`
	AffirmationID uint      `gorm:"column:affirmation_id;not null;uniqueIndex:uq_responses_triple" json:"affirmation"`
	EtudiantID    uuid.UUID `gorm:"column:etudiant_id;type:uuid;not null;uniqueIndex:uq_responses_triple" json:"etudiant"`
	ReponseVF     *bool     `gorm:"column:reponse_vf" json:"reponse_vf"`
	ReponseQCM    *int      `gorm:"column:reponse_choisie_qcm" json:"reponse_choisie_qcm"`
	Justification *string   `gorm:"column:justification;type:text" json:"justification"`
	SubmittedAt   time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

func (ResponseModel) TableName() string {
	return "responses"
}
