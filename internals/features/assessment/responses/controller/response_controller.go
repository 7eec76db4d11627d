package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	"troublemaker_backend/internals/features/assessment/responses/dto"
	"troublemaker_backend/internals/features/assessment/responses/model"
	"troublemaker_backend/internals/features/assessment/responses/service"
	helper "troublemaker_backend/internals/helpers"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

var validateResponse = validator.New()

type ResponseController struct {
	DB *gorm.DB
}

func NewResponseController(db *gorm.DB) *ResponseController {
	return &ResponseController{DB: db}
}

func actorFromLocals(c *fiber.Ctx) (uuid.UUID, constants.Role, error) {
	idStr, _ := c.Locals(authMw.LocalUserID).(string)
	roleStr, _ := c.Locals(authMw.LocalUserRole).(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return id, constants.Role(roleStr), nil
}

// =======================
// Submit (create-or-replace)
// =======================
func (ctrl *ResponseController) SubmitResponse(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if role != constants.RoleEtudiant {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorEtudiant("la soumission de réponses"))
	}

	var body dto.SubmitResponseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateResponse.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	tokenCode, _ := c.Locals(authMw.LocalActivityCode).(string)
	stored, created, err := service.SubmitResponse(ctrl.DB, service.SubmitInput{
		ActivityCode:      body.ActivityCode,
		AffirmationID:     body.AffirmationID,
		EtudiantID:        actorID,
		ReponseVF:         body.ReponseVF,
		ReponseQCM:        body.ReponseQCM,
		Justification:     body.Justification,
		TokenActivityCode: tokenCode,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	if created {
		return helper.JsonCreated(c, "Réponse enregistrée", dto.ToResponseDTO(*stored))
	}
	return helper.JsonOK(c, "Réponse remplacée", dto.ToResponseDTO(*stored))
}

// =======================
// List
// Students see their own responses (optional activity_code /
// affirmation_id filters); encadrants see responses of one activity
// they own (activity_code required).
// =======================
func (ctrl *ResponseController) ListResponses(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	q := ctrl.DB.Model(&model.ResponseModel{})

	switch role {
	case constants.RoleEtudiant:
		q = q.Where("etudiant_id = ?", actorID)
		if code := strings.TrimSpace(c.Query("activity_code")); code != "" {
			q = q.Where("activite = ?", strings.ToUpper(code))
		}
		if affStr := strings.TrimSpace(c.Query("affirmation_id")); affStr != "" {
			affID, err := strconv.Atoi(affStr)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Le paramètre 'affirmation_id' doit être un entier.")
			}
			q = q.Where("affirmation_id = ?", affID)
		}
	case constants.RoleEncadrant:
		code := strings.ToUpper(strings.TrimSpace(c.Query("activity_code")))
		if code == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "Le paramètre 'activity_code' est requis.")
		}
		var activity activityModel.ActivityModel
		if err := ctrl.DB.First(&activity, "code_activite = ? AND encadrant_id = ?", code, actorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "Activité introuvable.")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check activity")
		}
		q = q.Where("activite = ?", code)
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Permission refusée pour ce rôle.")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count responses")
	}

	var rows []model.ResponseModel
	if err := q.Order("timestamp ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve responses")
	}

	out := make([]dto.ResponseDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToResponseDTO(r))
	}
	pagination := helper.BuildPagination(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", out, &pagination)
}

// =======================
// Detail
// =======================
func (ctrl *ResponseController) GetResponse(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	var row model.ResponseModel
	if err := ctrl.DB.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Réponse introuvable.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch response")
	}

	switch role {
	case constants.RoleEtudiant:
		if row.EtudiantID != actorID {
			return helper.JsonError(c, fiber.StatusNotFound, "Réponse introuvable.")
		}
	case constants.RoleEncadrant:
		var activity activityModel.ActivityModel
		if err := ctrl.DB.First(&activity, "code_activite = ?", row.ActivityCode).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check activity")
		}
		if activity.EncadrantID != actorID {
			return helper.JsonError(c, fiber.StatusForbidden, "Cette réponse n'appartient pas à l'une de vos activités.")
		}
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Permission refusée pour ce rôle.")
	}

	return helper.JsonOK(c, "", dto.ToResponseDTO(row))
}

// =======================
// Update by id (student edits own answer)
// The referenced statement's format still constrains the new shape.
// =======================
func (ctrl *ResponseController) UpdateResponse(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if role != constants.RoleEtudiant {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorEtudiant("la modification de réponses"))
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	var row model.ResponseModel
	if err := ctrl.DB.First(&row, "id = ? AND etudiant_id = ?", id, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Réponse introuvable.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch response")
	}

	var body dto.UpdateResponseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var affirmation affirmationModel.AffirmationModel
	if err := ctrl.DB.First(&affirmation, "id = ?", row.AffirmationID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch affirmation")
	}
	if shapeErr := service.ValidateAnswerShape(affirmation.Format, body.ReponseVF, body.ReponseQCM); shapeErr != nil {
		return helper.JsonValidationError(c, map[string][]string{shapeErr.Field: {shapeErr.Message}})
	}

	assignments := map[string]interface{}{
		"reponse_vf":          body.ReponseVF,
		"reponse_choisie_qcm": body.ReponseQCM,
		"justification":       body.Justification,
	}
	if err := ctrl.DB.Model(&model.ResponseModel{}).Where("id = ?", row.ID).Updates(assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update response")
	}

	if err := ctrl.DB.First(&row, "id = ?", row.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload response")
	}
	return helper.JsonUpdated(c, "Réponse mise à jour", dto.ToResponseDTO(row))
}

// =======================
// Delete — always rejected, submissions are immutable.
// =======================
func (ctrl *ResponseController) DeleteResponse(c *fiber.Ctx) error {
	return helper.JsonError(c, fiber.StatusMethodNotAllowed, "La suppression des réponses n'est pas autorisée.")
}
