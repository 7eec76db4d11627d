package model

import (
	"time"

	"github.com/google/uuid"

	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	categoryModel "troublemaker_backend/internals/features/assessment/categories/model"
	userModel "troublemaker_backend/internals/features/users/user/model"
)

// Learner types an activity can target.
const (
	LearnerInterne = "interne"
	LearnerExterne = "externe"
)

// ActivityModel is the coded assessment unit. The code is the primary
// key, uppercase alphanumeric, and immutable after creation. Format
// constrains which answer shape the attached statements accept.
type ActivityModel struct {
	Code        string    `gorm:"column:code_activite;primaryKey;size:9" json:"code_activite"`
	Title       string    `gorm:"column:titre;size:255;not null" json:"titre"`
	PublicIntro *string   `gorm:"column:presentation_publique;type:text" json:"presentation_publique"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	Format      int       `gorm:"column:type_affirmation_requise;not null;default:2" json:"type_affirmation_requise"`
	LearnerType string    `gorm:"column:type_apprenant;size:10;not null;default:'interne'" json:"type_apprenant"`
	CategoryID  *uint     `gorm:"column:destine_a_id" json:"destine_a_id"`
	EncadrantID uuid.UUID `gorm:"column:encadrant_id;type:uuid;not null;index" json:"encadrant_id"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Category     *categoryModel.CategoryModel        `gorm:"foreignKey:CategoryID" json:"destine_a,omitempty"`
	Students     []userModel.UserModel               `gorm:"many2many:activity_students;joinForeignKey:activity_code;joinReferences:user_id" json:"etudiants_autorises,omitempty"`
	Affirmations []affirmationModel.AffirmationModel `gorm:"many2many:activity_affirmations;joinForeignKey:activity_code;joinReferences:affirmation_id" json:"affirmations_associes,omitempty"`
}

func (ActivityModel) TableName() string {
	return "activities"
}
