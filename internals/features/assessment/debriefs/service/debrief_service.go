package service

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	"troublemaker_backend/internals/features/assessment/debriefs/model"
	responseModel "troublemaker_backend/internals/features/assessment/responses/model"
)

// CreateDebrief attaches feedback to one response. The caller must own
// the activity the response belongs to, and a response takes exactly
// one debrief: the unique index turns a second attempt into a 409
// without disturbing the first.
func CreateDebrief(db *gorm.DB, encadrantID uuid.UUID, responseID uint, feedback string) (*model.DebriefModel, error) {
	if err := checkResponseOwnership(db, encadrantID, responseID); err != nil {
		return nil, err
	}

	debrief := model.DebriefModel{
		Feedback:    feedback,
		ResponseID:  responseID,
		EncadrantID: encadrantID,
	}
	if err := db.Create(&debrief).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Cette réponse a déjà un débrief.")
		}
		return nil, err
	}
	return &debrief, nil
}

// GetDebrief fetches one of the caller's debriefs.
func GetDebrief(db *gorm.DB, encadrantID uuid.UUID, id uint) (*model.DebriefModel, error) {
	return getOwned(db, encadrantID, id)
}

// ListDebriefs returns one page of the caller's debriefs plus the
// unpaged total, optionally restricted to one response.
func ListDebriefs(db *gorm.DB, encadrantID uuid.UUID, responseID *uint, offset, limit int) ([]model.DebriefModel, int64, error) {
	q := db.Model(&model.DebriefModel{}).Where("encadrant_id = ?", encadrantID)
	if responseID != nil {
		q = q.Where("reponse_id = ?", *responseID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var debriefs []model.DebriefModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&debriefs).Error; err != nil {
		return nil, 0, err
	}
	return debriefs, total, nil
}

// UpdateDebrief rewrites the feedback text of one of the caller's
// debriefs.
func UpdateDebrief(db *gorm.DB, encadrantID uuid.UUID, id uint, feedback string) (*model.DebriefModel, error) {
	debrief, err := getOwned(db, encadrantID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(debrief).Update("feedback", feedback).Error; err != nil {
		return nil, err
	}
	return debrief, nil
}

// DeleteDebrief removes one of the caller's debriefs, freeing the
// response for a new one.
func DeleteDebrief(db *gorm.DB, encadrantID uuid.UUID, id uint) error {
	debrief, err := getOwned(db, encadrantID, id)
	if err != nil {
		return err
	}
	return db.Delete(debrief).Error
}

func getOwned(db *gorm.DB, encadrantID uuid.UUID, id uint) (*model.DebriefModel, error) {
	var debrief model.DebriefModel
	if err := db.First(&debrief, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Débrief introuvable.")
		}
		return nil, err
	}
	if debrief.EncadrantID != encadrantID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Ce débrief ne vous appartient pas.")
	}
	return &debrief, nil
}

func checkResponseOwnership(db *gorm.DB, encadrantID uuid.UUID, responseID uint) error {
	var response responseModel.ResponseModel
	if err := db.First(&response, "id = ?", responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Réponse introuvable.")
		}
		return err
	}
	var activity activityModel.ActivityModel
	if err := db.First(&activity, "code_activite = ?", response.ActivityCode).Error; err != nil {
		return err
	}
	if activity.EncadrantID != encadrantID {
		return fiber.NewError(fiber.StatusForbidden, "Cette réponse n'appartient pas à l'une de vos activités.")
	}
	return nil
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
