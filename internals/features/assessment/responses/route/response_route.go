package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/responses/controller"
)

func ResponseRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewResponseController(db)

	r := api.Group("/reponses")
	r.Get("/", ctrl.ListResponses)
	r.Post("/", ctrl.SubmitResponse)
	r.Get("/:id", ctrl.GetResponse)
	r.Put("/:id", ctrl.UpdateResponse)
	r.Delete("/:id", ctrl.DeleteResponse)
}
