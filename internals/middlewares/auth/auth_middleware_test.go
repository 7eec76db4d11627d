package auth

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"troublemaker_backend/internals/configs"
	authModel "troublemaker_backend/internals/features/users/auth/model"
)

var dbSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:authmw_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&authModel.TokenBlacklistModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Get("/ping", AuthMiddleware(db), func(c *fiber.Ctx) error {
		code, _ := c.Locals(LocalActivityCode).(string)
		return c.SendString("scope=" + code)
	})
	return app
}

func requestWithToken(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/ping", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAuthMiddlewareRoleClaim(t *testing.T) {
	configs.JWTSecret = "test-secret"
	db := newTestDB(t)
	app := newApp(db)

	base := jwt.MapClaims{
		"sub": uuid.NewString(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	base["role"] = "etudiant"
	if got := requestWithToken(t, app, signToken(t, "test-secret", base)); got != fiber.StatusOK {
		t.Fatalf("valid role: want 200, got %d", got)
	}

	// roles outside the closed set never reach a handler
	base["role"] = "admin"
	if got := requestWithToken(t, app, signToken(t, "test-secret", base)); got != fiber.StatusUnauthorized {
		t.Fatalf("unknown role: want 401, got %d", got)
	}

	delete(base, "role")
	if got := requestWithToken(t, app, signToken(t, "test-secret", base)); got != fiber.StatusUnauthorized {
		t.Fatalf("missing role: want 401, got %d", got)
	}

	if got := requestWithToken(t, app, ""); got != fiber.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", got)
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	configs.JWTSecret = "test-secret"
	db := newTestDB(t)
	app := newApp(db)

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "encadrant",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if got := requestWithToken(t, app, token); got != fiber.StatusOK {
		t.Fatalf("before revocation: want 200, got %d", got)
	}
	if err := db.Create(&authModel.TokenBlacklistModel{Token: token, ExpiresAt: time.Now().Add(time.Hour)}).Error; err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if got := requestWithToken(t, app, token); got != fiber.StatusUnauthorized {
		t.Fatalf("after revocation: want 401, got %d", got)
	}
}
