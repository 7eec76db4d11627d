package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/debriefs/dto"
	"troublemaker_backend/internals/features/assessment/debriefs/service"
	helper "troublemaker_backend/internals/helpers"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

var validateDebrief = validator.New()

type DebriefController struct {
	DB *gorm.DB
}

func NewDebriefController(db *gorm.DB) *DebriefController {
	return &DebriefController{DB: db}
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
// Create (one debrief per response)
// =======================
func (ctrl *DebriefController) CreateDebrief(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var body dto.CreateDebriefRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateDebrief.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	debrief, err := service.CreateDebrief(ctrl.DB, encadrantID, body.ResponseID, body.Feedback)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Débrief créé", dto.ToDebriefDTO(*debrief))
}

// =======================
// List (own debriefs, optional reponse_id filter)
// =======================
func (ctrl *DebriefController) ListDebriefs(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var responseID *uint
	if raw := strings.TrimSpace(c.Query("reponse_id")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Le paramètre 'reponse_id' doit être un entier.")
		}
		id := uint(n)
		responseID = &id
	}

	paging := helper.ResolvePaging(c, 20, 100)
	debriefs, total, err := service.ListDebriefs(ctrl.DB, encadrantID, responseID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve debriefs")
	}

	out := make([]dto.DebriefDTO, 0, len(debriefs))
	for _, d := range debriefs {
		out = append(out, dto.ToDebriefDTO(d))
	}
	pagination := helper.BuildPagination(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", out, &pagination)
}

// =======================
// Detail
// =======================
func (ctrl *DebriefController) GetDebrief(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	debrief, err := service.GetDebrief(ctrl.DB, encadrantID, uint(id))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.ToDebriefDTO(*debrief))
}

// =======================
// Update
// =======================
func (ctrl *DebriefController) UpdateDebrief(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	var body dto.UpdateDebriefRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateDebrief.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	debrief, err := service.UpdateDebrief(ctrl.DB, encadrantID, uint(id), body.Feedback)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Débrief mis à jour", dto.ToDebriefDTO(*debrief))
}

// =======================
// Delete
// =======================
func (ctrl *DebriefController) DeleteDebrief(c *fiber.Ctx) error {
	encadrantID, err := encadrantFromLocals(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be an integer")
	}

	if err := service.DeleteDebrief(ctrl.DB, encadrantID, uint(id)); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Débrief supprimé", nil)
}
