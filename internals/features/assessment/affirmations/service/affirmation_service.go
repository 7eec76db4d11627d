package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	"troublemaker_backend/internals/features/assessment/affirmations/dto"
	"troublemaker_backend/internals/features/assessment/affirmations/model"
)

// CreateAffirmation stores a statement for the caller. The format is
// fixed here for good; the optional activity link only succeeds on an
// activity the caller owns.
func CreateAffirmation(db *gorm.DB, encadrantID uuid.UUID, req dto.CreateAffirmationRequest) (*model.AffirmationModel, error) {
	req.Normalize()

	if !model.ValidFormat(req.Format) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "nbr_reponses doit valoir 2 (vrai/faux) ou 4 (QCM).")
	}

	affirmation := model.AffirmationModel{
		Text:          req.Text,
		Explanation:   req.Explanation,
		Format:        req.Format,
		IsCorrectVF:   req.IsCorrectVF,
		CorrectChoice: req.CorrectChoice,
		EncadrantID:   &encadrantID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&affirmation).Error; err != nil {
			return err
		}
		if req.ActivityCode == nil || *req.ActivityCode == "" {
			return nil
		}
		var activity activityModel.ActivityModel
		if err := tx.First(&activity, "code_activite = ?", *req.ActivityCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Activité introuvable.")
			}
			return err
		}
		if activity.EncadrantID != encadrantID {
			return fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas l'encadrant de cette activité.")
		}
		return tx.Model(&activity).Association("Affirmations").Append(&affirmation)
	})
	if err != nil {
		return nil, err
	}
	return &affirmation, nil
}

// CanManage reports whether the encadrant may modify the statement:
// its creator always can, as can the owner of any activity it is
// attached to.
func CanManage(db *gorm.DB, encadrantID uuid.UUID, affirmation *model.AffirmationModel) (bool, error) {
	if affirmation.EncadrantID != nil && *affirmation.EncadrantID == encadrantID {
		return true, nil
	}
	var n int64
	err := db.Table("activity_affirmations").
		Joins("JOIN activities ON activities.code_activite = activity_affirmations.activity_code").
		Where("activity_affirmations.affirmation_id = ? AND activities.encadrant_id = ?", affirmation.ID, encadrantID).
		Count(&n).Error
	return n > 0, err
}

// GetAffirmation fetches one statement. Reads are open to every
// encadrant: the pool is shared so statements can be reused across
// activities; only mutation is ownership-gated.
func GetAffirmation(db *gorm.DB, id uint) (*model.AffirmationModel, error) {
	return getByID(db, id)
}

// UpdateAffirmation edits text and advisory metadata. The format never
// changes after creation.
func UpdateAffirmation(db *gorm.DB, encadrantID uuid.UUID, id uint, req dto.UpdateAffirmationRequest) (*model.AffirmationModel, error) {
	affirmation, err := getByID(db, id)
	if err != nil {
		return nil, err
	}
	ok, err := CanManage(db, encadrantID, affirmation)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Cette affirmation n'appartient pas à l'une de vos activités.")
	}

	assignments := map[string]interface{}{}
	if req.Text != nil {
		assignments["affirmation"] = *req.Text
	}
	if req.Explanation != nil {
		assignments["explication"] = *req.Explanation
	}
	if req.IsCorrectVF != nil {
		assignments["is_correct_vf"] = *req.IsCorrectVF
	}
	if req.CorrectChoice != nil {
		if *req.CorrectChoice < 1 || *req.CorrectChoice > 4 {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "reponse_correcte_qcm doit être comprise entre 1 et 4.")
		}
		assignments["reponse_correcte_qcm"] = *req.CorrectChoice
	}
	if len(assignments) > 0 {
		if err := db.Model(&model.AffirmationModel{}).Where("id = ?", id).Updates(assignments).Error; err != nil {
			return nil, err
		}
	}
	return getByID(db, id)
}

// DeleteAffirmation removes the statement and its activity links.
func DeleteAffirmation(db *gorm.DB, encadrantID uuid.UUID, id uint) error {
	affirmation, err := getByID(db, id)
	if err != nil {
		return err
	}
	ok, err := CanManage(db, encadrantID, affirmation)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Cette affirmation n'appartient pas à l'une de vos activités.")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM activity_affirmations WHERE affirmation_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.AffirmationModel{}, "id = ?", id).Error
	})
}

// ListAffirmations returns one page of the shared statement pool plus
// the unpaged total. Every encadrant sees every statement, so
// activities can be assembled from colleagues' work.
func ListAffirmations(db *gorm.DB, offset, limit int) ([]model.AffirmationModel, int64, error) {
	var total int64
	if err := db.Model(&model.AffirmationModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var affirmations []model.AffirmationModel
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&affirmations).Error; err != nil {
		return nil, 0, err
	}
	return affirmations, total, nil
}

func getByID(db *gorm.DB, id uint) (*model.AffirmationModel, error) {
	var affirmation model.AffirmationModel
	if err := db.First(&affirmation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Affirmation introuvable.")
		}
		return nil, err
	}
	return &affirmation, nil
}
