package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/users/auth/controller"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

// AuthRoutes registers the public login endpoints and the
// authenticated logout.
func AuthRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	app.Post("/login/activite", ctrl.LoginActivite)
	app.Post("/login/encadrant", ctrl.LoginEncadrant)
	// legacy alias kept for the older frontend
	app.Post("/encadrant/login", ctrl.LoginEncadrant)

	app.Post("/logout", authMw.AuthMiddleware(db), ctrl.Logout)
}
