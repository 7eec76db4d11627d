package route

import (
	"github.com/gofiber/fiber/v2"

	"troublemaker_backend/internals/features/generation/controller"
)

func GenerationRoutes(api fiber.Router) {
	ctrl := controller.NewGenerationController()

	api.Post("/generate", ctrl.Generate)

	g := api.Group("/gemini")
	g.Post("/generate-affirmations", ctrl.GenerateFalseAffirmations)
	g.Post("/make-harder", ctrl.MakeHarder)
}
