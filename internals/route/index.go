package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	activityRoute "troublemaker_backend/internals/features/assessment/activities/route"
	affirmationRoute "troublemaker_backend/internals/features/assessment/affirmations/route"
	categoryRoute "troublemaker_backend/internals/features/assessment/categories/route"
	debriefRoute "troublemaker_backend/internals/features/assessment/debriefs/route"
	responseRoute "troublemaker_backend/internals/features/assessment/responses/route"
	generationRoute "troublemaker_backend/internals/features/generation/route"
	authRoute "troublemaker_backend/internals/features/users/auth/route"
	userRoute "troublemaker_backend/internals/features/users/user/route"
	authMw "troublemaker_backend/internals/middlewares/auth"
)

// SetupRoutes wires the whole HTTP surface: public logins, then the
// authenticated API, with the authoring endpoints further gated to
// encadrants.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	authRoute.AuthRoutes(app, db)

	api := app.Group("/", authMw.AuthMiddleware(db))

	// both roles, visibility filtered per actor inside
	activityRoute.ActivityRoutes(api, db)
	responseRoute.ResponseRoutes(api, db)

	// encadrant-only surface
	encadrant := api.Group("/",
		authMw.OnlyRoles(constants.RoleErrorEncadrant("cette ressource"), constants.RoleEncadrant))
	affirmationRoute.AffirmationRoutes(encadrant, db)
	debriefRoute.DebriefRoutes(encadrant, db)
	categoryRoute.CategoryRoutes(encadrant, db)
	generationRoute.GenerationRoutes(encadrant)

	userRoute.UserRoutes(api, db)
}
