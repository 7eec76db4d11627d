package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/categories/controller"
)

func CategoryRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCategoryController(db)

	r := api.Group("/categories")
	r.Get("/", ctrl.ListCategories)
	r.Post("/", ctrl.CreateCategory)
}
