package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"troublemaker_backend/internals/configs"
	"troublemaker_backend/internals/constants"
	authModel "troublemaker_backend/internals/features/users/auth/model"
)

// Locals keys set by AuthMiddleware.
const (
	LocalUserID       = "user_id"
	LocalUserRole     = "userRole"
	LocalActivityCode = "activity_code" // only present on student tokens
)

// AuthMiddleware extracts the bearer (or cookie) token, refuses
// blacklisted tokens, verifies signature and expiry, and stores the
// identity claims in Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		var revoked authModel.TokenBlacklistModel
		if err := db.Where("token = ?", tokenString).First(&revoked).Error; err == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token revoked")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		secret := configs.JWTSecret
		if secret == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid token")
		}

		if err := validateExpiry(claims); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token expired")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing subject")
		}
		c.Locals(LocalUserID, sub)

		role, _ := claims["role"].(string)
		if !constants.Role(role).Valid() {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - unknown role")
		}
		c.Locals(LocalUserRole, role)
		if code, ok := claims["activity_code"].(string); ok && code != "" {
			c.Locals(LocalActivityCode, code)
		}
		c.Locals("raw_token", tokenString)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", errors.New("invalid Authorization header")
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), nil
	}
	if cookie := strings.TrimSpace(c.Cookies("access_token")); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("missing access token")
}

func validateExpiry(claims jwt.MapClaims) error {
	expF, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("missing exp claim")
	}
	// small leeway for clock skew
	if time.Now().After(time.Unix(int64(expF), 0).Add(30 * time.Second)) {
		return errors.New("token expired")
	}
	return nil
}
