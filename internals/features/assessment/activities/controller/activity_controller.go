package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/assessment/activities/dto"
	"troublemaker_backend/internals/features/assessment/activities/service"
	helper "troublemaker_backend/internals/helpers"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

var validateActivity = validator.New()

type ActivityController struct {
	DB *gorm.DB
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db}
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
// Create
// =======================
func (ctrl *ActivityController) CreateActivity(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if role != constants.RoleEncadrant {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorEncadrant("la création d'activités"))
	}

	var body dto.CreateActivityRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := body.Validate(validateActivity); err != nil {
		if errors.Is(err, dto.ErrInvalidCode) {
			return helper.JsonValidationError(c, map[string][]string{"code_activite": {err.Error()}})
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := service.CreateActivity(ctrl.DB, actorID, body)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Activité créée", dto.ToActivityDTO(*activity))
}

// =======================
// List (role-scoped visibility)
// =======================
func (ctrl *ActivityController) ListActivities(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	activities, total, err := service.ListForActor(ctrl.DB, actorID, role == constants.RoleEncadrant, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	out := make([]dto.ActivityDTO, 0, len(activities))
	for _, a := range activities {
		out = append(out, dto.ToActivityDTO(a))
	}
	pagination := helper.BuildPagination(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", out, &pagination)
}

// =======================
// Detail
// =======================
func (ctrl *ActivityController) GetActivity(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	activity, err := service.GetForActor(ctrl.DB, actorID, role == constants.RoleEncadrant, c.Params("code"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.ToActivityDTO(*activity))
}

// =======================
// Update (owner only; the code is immutable)
// =======================
func (ctrl *ActivityController) UpdateActivity(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if role != constants.RoleEncadrant {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorEncadrant("la modification d'activités"))
	}

	var body dto.UpdateActivityRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateActivity.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := service.UpdateActivity(ctrl.DB, actorID, c.Params("code"), body)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Activité mise à jour", dto.ToActivityDTO(*activity))
}

// =======================
// Delete (owner only)
// =======================
func (ctrl *ActivityController) DeleteActivity(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if role != constants.RoleEncadrant {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorEncadrant("la suppression d'activités"))
	}

	if err := service.DeleteActivity(ctrl.DB, actorID, c.Params("code")); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Activité supprimée", nil)
}
