package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"troublemaker_backend/internals/configs"
	"troublemaker_backend/internals/features/generation/dto"
	"troublemaker_backend/internals/features/generation/service"
	helper "troublemaker_backend/internals/helpers"
)

var validateGeneration = validator.New()

type GenerationController struct {
	Engine *service.Engine
}

func NewGenerationController() *GenerationController {
	return &GenerationController{
		Engine: service.NewEngine(configs.GeminiAPIKey, configs.GeminiModel),
	}
}

// =======================
// Mixed batch, caller-chosen count
// =======================
func (ctrl *GenerationController) Generate(c *fiber.Ctx) error {
	var body dto.GenerateRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateGeneration.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "'number' (1-10) et 'question' sont requis.")
	}

	affirmations, err := ctrl.Engine.GenerateAffirmations(c.UserContext(), body.Question, body.Number)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.AffirmationsPayload{Affirmations: affirmations})
}

// =======================
// Exactly three false statements
// =======================
func (ctrl *GenerationController) GenerateFalseAffirmations(c *fiber.Ctx) error {
	var body dto.GenerateFalseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateGeneration.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Une question est requise.")
	}

	affirmations, err := ctrl.Engine.GenerateFalseAffirmations(c.UserContext(), body.Question)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.AffirmationsPayload{Affirmations: affirmations})
}

// =======================
// Harden one false statement
// =======================
func (ctrl *GenerationController) MakeHarder(c *fiber.Ctx) error {
	var body dto.MakeHarderRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateGeneration.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Affirmation requise.")
	}

	out, err := ctrl.Engine.MakeHarder(c.UserContext(), body.Affirmation, body.Explanation)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", out)
}
