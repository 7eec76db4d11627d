package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/affirmations/dto"
	"troublemaker_backend/internals/features/assessment/affirmations/service"
	helper "troublemaker_backend/internals/helpers"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

var validateAffirmation = validator.New()

type AffirmationController struct {
	DB *gorm.DB
}

func NewAffirmationController(db *gorm.DB) *AffirmationController {
	return &AffirmationController{DB: db}
}

func encadrantFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	idStr, _ := c.Locals(authMw.LocalUserID).(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return id, nil
}

// =======================
// Create (format fixed here for good)
// =======================
func (ctrl *AffirmationController) CreateAffirmation(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var body dto.CreateAffirmationRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAffirmation.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	affirmation, err := service.CreateAffirmation(ctrl.DB, encadrantID, body)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Affirmation créée", dto.ToAffirmationDTO(*affirmation))
}

// =======================
// List (shared pool, every encadrant)
// =======================
func (ctrl *AffirmationController) ListAffirmations(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	affirmations, total, err := service.ListAffirmations(ctrl.DB, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve affirmations")
	}

	out := make([]dto.AffirmationDTO, 0, len(affirmations))
	for _, a := range affirmations {
		out = append(out, dto.ToAffirmationDTO(a))
	}
	pagination := helper.BuildPagination(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", out, &pagination)
}

// =======================
// Detail (open read within the encadrant surface)
// =======================
func (ctrl *AffirmationController) GetAffirmation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	affirmation, err := service.GetAffirmation(ctrl.DB, uint(id))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.ToAffirmationDTO(*affirmation))
}

// =======================
// Update (format immutable)
// =======================
func (ctrl *AffirmationController) UpdateAffirmation(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	var body dto.UpdateAffirmationRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAffirmation.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	affirmation, err := service.UpdateAffirmation(ctrl.DB, encadrantID, uint(id), body)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Affirmation mise à jour", dto.ToAffirmationDTO(*affirmation))
}

// =======================
// Delete
// =======================
func (ctrl *AffirmationController) DeleteAffirmation(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	if err := service.DeleteAffirmation(ctrl.DB, encadrantID, uint(id)); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Affirmation supprimée", nil)
}
