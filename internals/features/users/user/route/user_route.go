package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/users/user/controller"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	users := api.Group("/users",
		authMw.OnlyRoles(constants.RoleErrorEncadrant("la gestion des utilisateurs"), constants.RoleEncadrant))
	users.Post("/get_ids_by_email", ctrl.ResolveEmailsToIDs)
}
