package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/debriefs/controller"
)

func DebriefRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDebriefController(db)

	r := api.Group("/debriefs")
	r.Get("/", ctrl.ListDebriefs)
	r.Post("/", ctrl.CreateDebrief)
	r.Get("/:id", ctrl.GetDebrief)
	r.Put("/:id", ctrl.UpdateDebrief)
	r.Delete("/:id", ctrl.DeleteDebrief)
}
