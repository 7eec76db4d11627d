package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/users/user/dto"
	"troublemaker_backend/internals/features/users/user/service"
	helper "troublemaker_backend/internals/helpers"
)

var validateUser = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// =======================
// Resolve student emails to ids (lookup-only)
// =======================
func (ctrl *UserController) ResolveEmailsToIDs(c *fiber.Ctx) error {
	var body dto.ResolveEmailsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "emails must be a list")
	}
	if err := validateUser.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := service.ResolveEmailsToIDs(ctrl.DB, body.Emails)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error resolving emails")
	}
	// Flat shape, the frontend reads ids/missing_emails directly.
	return c.Status(fiber.StatusOK).JSON(result)
}
