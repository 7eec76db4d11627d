package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	responseService "troublemaker_backend/internals/features/assessment/responses/service"
	userModel "troublemaker_backend/internals/features/users/user/model"
)

const accessTTL = 24 * time.Hour

// AuthenticateStudent validates the (email, activity code) login pair.
// It succeeds only when the email belongs to a student account, the
// activity exists and is published, and the student sits in its
// authorized set. A valid identity on a draft activity is refused.
func AuthenticateStudent(db *gorm.DB, email, code string) (*userModel.UserModel, *activityModel.ActivityModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.ToUpper(strings.TrimSpace(code))
	if email == "" || code == "" {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Email et code_activite sont requis.")
	}

	var user userModel.UserModel
	if err := db.First(&user, "email = ? AND role = ?", email, constants.RoleEtudiant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Aucun étudiant trouvé avec cet email.")
		}
		return nil, nil, err
	}

	var activity activityModel.ActivityModel
	if err := db.First(&activity, "code_activite = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Aucune activité trouvée avec le code %s.", code))
		}
		return nil, nil, err
	}

	enrolled, err := responseService.IsEnrolled(db, code, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if !enrolled {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Cet utilisateur n'est pas autorisé à accéder à cette activité.")
	}
	if !activity.IsPublished {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Cette activité n'est pas encore publiée.")
	}

	return &user, &activity, nil
}

// AuthenticateEncadrant validates the (email, password) login pair for
// the supervisor role.
func AuthenticateEncadrant(db *gorm.DB, email, password string) (*userModel.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Email et mot de passe sont requis.")
	}

	var user userModel.UserModel
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Aucun utilisateur trouvé avec cet email.")
		}
		return nil, err
	}
	if !user.IsEncadrant() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Seuls les encadrants peuvent se connecter ici.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Mot de passe incorrect.")
	}
	return &user, nil
}

// IssueToken signs an HS256 access token. Student tokens carry the
// activity code they authenticated against; pass an empty code for
// encadrants.
func IssueToken(secret string, user *userModel.UserModel, activityCode string) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(accessTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if activityCode != "" {
		claims["activity_code"] = activityCode
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to sign access token")
	}
	return signed, expiresAt, nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
