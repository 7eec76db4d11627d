package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/activities/controller"
)

func ActivityRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewActivityController(db)

	r := api.Group("/activites")
	r.Get("/", ctrl.ListActivities)
	r.Post("/", ctrl.CreateActivity)
	r.Get("/:code", ctrl.GetActivity)
	r.Put("/:code", ctrl.UpdateActivity)
	r.Patch("/:code", ctrl.UpdateActivity)
	r.Delete("/:code", ctrl.DeleteActivity)
}
