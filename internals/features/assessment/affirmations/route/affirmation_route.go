package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/affirmations/controller"
)

func AffirmationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAffirmationController(db)

	r := api.Group("/affirmations")
	r.Get("/", ctrl.ListAffirmations)
	r.Post("/", ctrl.CreateAffirmation)
	r.Get("/:id", ctrl.GetAffirmation)
	r.Put("/:id", ctrl.UpdateAffirmation)
	r.Delete("/:id", ctrl.DeleteAffirmation)
}
