package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"troublemaker_backend/internals/configs"
	authModel "troublemaker_backend/internals/features/users/auth/model"
	"troublemaker_backend/internals/features/users/auth/service"
	userDto "troublemaker_backend/internals/features/users/user/dto"
	helper "troublemaker_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// =======================
// Student login (email + activity code)
// =======================
func (ac *AuthController) LoginActivite(c *fiber.Ctx) error {
	var body struct {
		Email        string `json:"email"`
		CodeActivite string `json:"code_activite"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, activity, err := service.AuthenticateStudent(ac.DB, body.Email, body.CodeActivite)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	token, expiresAt, err := service.IssueToken(configs.JWTSecret, user, activity.Code)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, token, expiresAt)

	return helper.JsonOK(c, "Connexion réussie.", fiber.Map{
		"user":          userDto.ToUserDTO(*user),
		"code_activite": activity.Code,
		"access_token":  token,
	})
}

// =======================
// Encadrant login (email + password)
// =======================
func (ac *AuthController) LoginEncadrant(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := service.AuthenticateEncadrant(ac.DB, body.Email, body.Password)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	token, expiresAt, err := service.IssueToken(configs.JWTSecret, user, "")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, token, expiresAt)

	return helper.JsonOK(c, "Connexion encadrant réussie.", fiber.Map{
		"user":         userDto.ToUserDTO(*user),
		"access_token": token,
	})
}

// =======================
// Logout: blacklist the presented token and drop the cookie.
// =======================
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals("raw_token").(string)
	if raw != "" {
		expiresAt := time.Now().Add(24 * time.Hour)
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(configs.JWTSecret), nil
		}); err == nil {
			if exp, ok := claims["exp"].(float64); ok {
				expiresAt = time.Unix(int64(exp), 0)
			}
		}
		if err := ac.DB.Create(&authModel.TokenBlacklistModel{Token: raw, ExpiresAt: expiresAt}).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to revoke token")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
	})
	return helper.JsonOK(c, "Déconnexion réussie.", nil)
}

func setAccessCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  expiresAt,
	})
}
