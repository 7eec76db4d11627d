package service

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/assessment/activities/dto"
	"troublemaker_backend/internals/features/assessment/activities/model"
	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	userModel "troublemaker_backend/internals/features/users/user/model"
	rosterService "troublemaker_backend/internals/features/users/user/service"
)

// preload pulls everything the detail serialization needs in one pass.
func preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Students").Preload("Affirmations")
}

// CreateActivity creates a coded activity owned by the caller. The
// authorized roster is the union of the explicit ID list and the
// resolved email list; unknown emails become fresh student identities.
func CreateActivity(db *gorm.DB, encadrantID uuid.UUID, req dto.CreateActivityRequest) (*model.ActivityModel, error) {
	req.Normalize()

	var existing model.ActivityModel
	err := db.First(&existing, "code_activite = ?", req.Code).Error
	if err == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Une activité avec ce code existe déjà.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	activity := model.ActivityModel{
		Code:        req.Code,
		Title:       req.Title,
		PublicIntro: req.PublicIntro,
		Description: req.Description,
		Format:      req.Format,
		LearnerType: req.LearnerType,
		CategoryID:  req.CategoryID,
		EncadrantID: encadrantID,
		IsPublished: req.IsPublished,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}
		students, err := buildRoster(tx, req.EtudiantIDs, req.EtudiantsEmails)
		if err != nil {
			return err
		}
		if len(students) > 0 {
			if err := tx.Model(&activity).Association("Students").Append(students); err != nil {
				return err
			}
		}
		affirmations, err := loadAffirmations(tx, req.AffirmationIDs)
		if err != nil {
			return err
		}
		if len(affirmations) > 0 {
			if err := tx.Model(&activity).Association("Affirmations").Append(affirmations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return getByCode(db, activity.Code)
}

// UpdateActivity applies a partial update to the caller's activity.
// The code itself is immutable. When a roster or statement list is
// present in the request it replaces the current association wholesale.
func UpdateActivity(db *gorm.DB, encadrantID uuid.UUID, code string, req dto.UpdateActivityRequest) (*model.ActivityModel, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	activity, err := getByCode(db, code)
	if err != nil {
		return nil, err
	}
	if activity.EncadrantID != encadrantID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas l'encadrant de cette activité.")
	}

	assignments := map[string]interface{}{}
	if req.Title != nil {
		assignments["titre"] = strings.TrimSpace(*req.Title)
	}
	if req.PublicIntro != nil {
		assignments["presentation_publique"] = *req.PublicIntro
	}
	if req.Description != nil {
		assignments["description"] = *req.Description
	}
	if req.Format != nil {
		assignments["type_affirmation_requise"] = *req.Format
	}
	if req.LearnerType != nil {
		assignments["type_apprenant"] = *req.LearnerType
	}
	if req.CategoryID != nil {
		assignments["destine_a_id"] = *req.CategoryID
	}
	if req.IsPublished != nil {
		assignments["is_published"] = *req.IsPublished
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(assignments) > 0 {
			if err := tx.Model(&model.ActivityModel{}).
				Where("code_activite = ?", code).
				Updates(assignments).Error; err != nil {
				return err
			}
		}
		if req.EtudiantIDs != nil || req.EtudiantsEmails != nil {
			emails := ""
			if req.EtudiantsEmails != nil {
				emails = *req.EtudiantsEmails
			}
			students, err := buildRoster(tx, req.EtudiantIDs, emails)
			if err != nil {
				return err
			}
			if err := tx.Model(activity).Association("Students").Replace(students); err != nil {
				return err
			}
		}
		if req.AffirmationIDs != nil {
			affirmations, err := loadAffirmations(tx, req.AffirmationIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(activity).Association("Affirmations").Replace(affirmations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return getByCode(db, code)
}

// ListForActor returns one page of the activities visible to the
// caller, plus the unpaged total: an encadrant sees every activity
// they own, a student sees the published activities they are enrolled
// in.
func ListForActor(db *gorm.DB, actorID uuid.UUID, isEncadrant bool, offset, limit int) ([]model.ActivityModel, int64, error) {
	q := db.Model(&model.ActivityModel{})
	if isEncadrant {
		q = q.Where("encadrant_id = ?", actorID)
	} else {
		q = q.
			Joins("JOIN activity_students ON activity_students.activity_code = activities.code_activite").
			Where("activity_students.user_id = ? AND is_published = ?", actorID, true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []model.ActivityModel
	if err := preload(q).Order("created_at DESC").Offset(offset).Limit(limit).Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// GetForActor fetches one activity under the visibility rules: the
// owner always sees it, another encadrant is refused, and a student
// sees it only when enrolled and published. Drafts stay invisible to
// students, indistinguishable from an unknown code.
func GetForActor(db *gorm.DB, actorID uuid.UUID, isEncadrant bool, code string) (*model.ActivityModel, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	activity, err := getByCode(db, code)
	if err != nil {
		return nil, err
	}
	if isEncadrant {
		if activity.EncadrantID != actorID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas l'encadrant de cette activité.")
		}
		return activity, nil
	}

	var n int64
	if err := db.Table("activity_students").
		Where("activity_code = ? AND user_id = ?", code, actorID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 || !activity.IsPublished {
		return nil, fiber.NewError(fiber.StatusNotFound, "Activité introuvable.")
	}
	return activity, nil
}

// DeleteActivity removes the caller's activity along with its roster
// and statement links.
func DeleteActivity(db *gorm.DB, encadrantID uuid.UUID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	activity, err := getByCode(db, code)
	if err != nil {
		return err
	}
	if activity.EncadrantID != encadrantID {
		return fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas l'encadrant de cette activité.")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(activity).Association("Students").Clear(); err != nil {
			return err
		}
		if err := tx.Model(activity).Association("Affirmations").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.ActivityModel{}, "code_activite = ?", code).Error
	})
}

func getByCode(db *gorm.DB, code string) (*model.ActivityModel, error) {
	var activity model.ActivityModel
	if err := preload(db).First(&activity, "code_activite = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Activité introuvable.")
		}
		return nil, err
	}
	return &activity, nil
}

func buildRoster(db *gorm.DB, ids []uuid.UUID, emails string) ([]userModel.UserModel, error) {
	var students []userModel.UserModel
	if len(ids) > 0 {
		if err := db.Where("id IN ? AND role = ?", ids, constants.RoleEtudiant).Find(&students).Error; err != nil {
			return nil, err
		}
	}
	resolved, err := rosterService.ResolveOrCreateStudents(db, rosterService.ParseEmailList(emails))
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(students)+len(resolved))
	merged := make([]userModel.UserModel, 0, len(students)+len(resolved))
	for _, s := range append(students, resolved...) {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		merged = append(merged, s)
	}
	return merged, nil
}

func loadAffirmations(db *gorm.DB, ids []uint) ([]affirmationModel.AffirmationModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var affirmations []affirmationModel.AffirmationModel
	if err := db.Where("id IN ?", ids).Find(&affirmations).Error; err != nil {
		return nil, err
	}
	if len(affirmations) != len(uniqueUints(ids)) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Une ou plusieurs affirmations sont introuvables.")
	}
	return affirmations, nil
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
