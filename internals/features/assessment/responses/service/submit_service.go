package service

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	"troublemaker_backend/internals/features/assessment/responses/model"
)

// SubmitInput is one student submission for one statement within one
// activity.
type SubmitInput struct {
	ActivityCode  string
	AffirmationID uint
	EtudiantID    uuid.UUID
	ReponseVF     *bool
	ReponseQCM    *int
	Justification *string

	// TokenActivityCode is the activity scope carried by the student's
	// token; when set, submissions to any other activity are refused.
	TokenActivityCode string
}

// SubmitResponse atomically creates or replaces the response for the
// (activity, affirmation, etudiant) triple. Preconditions, first
// failure wins: the token scope covers the activity, the activity is
// published, the student is enrolled in it, the statement is attached
// to it, and the answer shape matches the statement's format. Returns
// the stored row and whether it was newly created.
//
// The write path is a plain insert; a duplicate-key failure on the
// triple's unique index falls through to a keyed update, so concurrent
// duplicate submissions resolve to one row with the later answer.
// submitted_at keeps the creation time across replacements.
func SubmitResponse(db *gorm.DB, in SubmitInput) (*model.ResponseModel, bool, error) {
	code := strings.ToUpper(strings.TrimSpace(in.ActivityCode))

	if in.TokenActivityCode != "" && !strings.EqualFold(in.TokenActivityCode, code) {
		return nil, false, fiber.NewError(fiber.StatusForbidden, "Votre session ne couvre pas cette activité.")
	}

	var activity activityModel.ActivityModel
	if err := db.First(&activity, "code_activite = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fiber.NewError(fiber.StatusNotFound, "Activité introuvable.")
		}
		return nil, false, err
	}

	// Drafts are invisible to students, the answer path included.
	if !activity.IsPublished {
		return nil, false, fiber.NewError(fiber.StatusNotFound, "Activité introuvable.")
	}

	enrolled, err := IsEnrolled(db, code, in.EtudiantID)
	if err != nil {
		return nil, false, err
	}
	if !enrolled {
		return nil, false, fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas autorisé pour cette activité.")
	}

	var affirmation affirmationModel.AffirmationModel
	if err := db.First(&affirmation, "id = ?", in.AffirmationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fiber.NewError(fiber.StatusNotFound, "Affirmation introuvable.")
		}
		return nil, false, err
	}

	attached, err := isAttached(db, code, in.AffirmationID)
	if err != nil {
		return nil, false, err
	}
	if !attached {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "Cette affirmation n'appartient pas à l'activité spécifiée.")
	}

	if shapeErr := ValidateAnswerShape(affirmation.Format, in.ReponseVF, in.ReponseQCM); shapeErr != nil {
		return nil, false, fiber.NewError(fiber.StatusUnprocessableEntity, shapeErr.Error())
	}

	row := model.ResponseModel{
		ActivityCode:  code,
		AffirmationID: in.AffirmationID,
		EtudiantID:    in.EtudiantID,
		ReponseVF:     in.ReponseVF,
		ReponseQCM:    in.ReponseQCM,
		Justification: in.Justification,
	}

	createErr := db.Create(&row).Error
	if createErr == nil {
		return &row, true, nil
	}
	if !isDuplicateKey(createErr) {
		return nil, false, createErr
	}

	// A row for the triple already exists: replace the answer fields,
	// leaving submitted_at untouched.
	assignments := map[string]interface{}{
		"reponse_vf":          in.ReponseVF,
		"reponse_choisie_qcm": in.ReponseQCM,
		"justification":       in.Justification,
	}
	res := db.Model(&model.ResponseModel{}).
		Where("activite = ? AND affirmation_id = ? AND etudiant_id = ?", code, in.AffirmationID, in.EtudiantID).
		Updates(assignments)
	if res.Error != nil {
		return nil, false, res.Error
	}

	var stored model.ResponseModel
	if err := db.
		Where("activite = ? AND affirmation_id = ? AND etudiant_id = ?", code, in.AffirmationID, in.EtudiantID).
		First(&stored).Error; err != nil {
		return nil, false, err
	}
	return &stored, false, nil
}

// IsEnrolled reports whether the student is in the activity's
// authorized set.
func IsEnrolled(db *gorm.DB, code string, etudiantID uuid.UUID) (bool, error) {
	var n int64
	err := db.Table("activity_students").
		Where("activity_code = ? AND user_id = ?", code, etudiantID).
		Count(&n).Error
	return n > 0, err
}

func isAttached(db *gorm.DB, code string, affirmationID uint) (bool, error) {
	var n int64
	err := db.Table("activity_affirmations").
		Where("activity_code = ? AND affirmation_id = ?", code, affirmationID).
		Count(&n).Error
	return n > 0, err
}

// isDuplicateKey detects a unique violation across Postgres (SQLSTATE
// 23505) and the SQLite test database.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
