package service

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"troublemaker_backend/internals/constants"
	activityModel "troublemaker_backend/internals/features/assessment/activities/model"
	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	"troublemaker_backend/internals/features/assessment/debriefs/model"
	responseModel "troublemaker_backend/internals/features/assessment/responses/model"
	userModel "troublemaker_backend/internals/features/users/user/model"
)

var dbSeq int

type fixture struct {
	db       *gorm.DB
	prof     userModel.UserModel
	other    userModel.UserModel
	response responseModel.ResponseModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:debrief_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&affirmationModel.AffirmationModel{},
		&activityModel.ActivityModel{},
		&responseModel.ResponseModel{},
		&model.DebriefModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prof := userModel.UserModel{UserName: "prof", Email: "prof@e.com", Role: constants.RoleEncadrant}
	other := userModel.UserModel{UserName: "other", Email: "other@e.com", Role: constants.RoleEncadrant}
	etudiant := userModel.UserModel{UserName: "etu", Email: "etu@e.com", Role: constants.RoleEtudiant}
	for _, u := range []*userModel.UserModel{&prof, &other, &etudiant} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	activity := activityModel.ActivityModel{
		Code:        "BIO1",
		Title:       "Biologie",
		Format:      affirmationModel.FormatVraiFaux,
		LearnerType: activityModel.LearnerInterne,
		EncadrantID: prof.ID,
		IsPublished: true,
	}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}
	affirmation := affirmationModel.AffirmationModel{Text: "Test.", Format: affirmationModel.FormatVraiFaux}
	if err := db.Create(&affirmation).Error; err != nil {
		t.Fatalf("create affirmation: %v", err)
	}

	vrai := true
	response := responseModel.ResponseModel{
		ActivityCode:  "BIO1",
		AffirmationID: affirmation.ID,
		EtudiantID:    etudiant.ID,
		ReponseVF:     &vrai,
	}
	if err := db.Create(&response).Error; err != nil {
		t.Fatalf("create response: %v", err)
	}

	return &fixture{db: db, prof: prof, other: other, response: response}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("expected *fiber.Error, got %T: %v", err, err)
	}
	return fe.Code
}

func TestCreateDebriefConflictKeepsOriginal(t *testing.T) {
	f := newFixture(t)

	first, err := CreateDebrief(f.db, f.prof.ID, f.response.ID, "Bonne justification.")
	if err != nil {
		t.Fatalf("first debrief: %v", err)
	}

	_, err = CreateDebrief(f.db, f.prof.ID, f.response.ID, "Deuxième tentative.")
	if statusOf(t, err) != fiber.StatusConflict {
		t.Fatalf("want 409, got %d", statusOf(t, err))
	}

	// original untouched
	var stored model.DebriefModel
	if err := f.db.First(&stored, "reponse_id = ?", f.response.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ID != first.ID || stored.Feedback != "Bonne justification." {
		t.Fatalf("conflict mutated the original: %+v", stored)
	}
	var n int64
	f.db.Model(&model.DebriefModel{}).Count(&n)
	if n != 1 {
		t.Fatalf("want exactly 1 debrief, got %d", n)
	}
}

func TestCreateDebriefOwnershipAndMissing(t *testing.T) {
	f := newFixture(t)

	// the response belongs to prof's activity, not other's
	_, err := CreateDebrief(f.db, f.other.ID, f.response.ID, "Pas à moi.")
	if statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign response: want 403, got %d", statusOf(t, err))
	}

	_, err = CreateDebrief(f.db, f.prof.ID, 999, "Fantôme.")
	if statusOf(t, err) != fiber.StatusNotFound {
		t.Fatalf("missing response: want 404, got %d", statusOf(t, err))
	}
}

func TestDebriefLifecycle(t *testing.T) {
	f := newFixture(t)

	created, err := CreateDebrief(f.db, f.prof.ID, f.response.ID, "Première version.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := GetDebrief(f.db, f.other.ID, created.ID); statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign read: want 403, got %d", statusOf(t, err))
	}

	updated, err := UpdateDebrief(f.db, f.prof.ID, created.ID, "Version corrigée.")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Feedback != "Version corrigée." {
		t.Fatalf("feedback: %q", updated.Feedback)
	}

	if err := DeleteDebrief(f.db, f.other.ID, created.ID); statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign delete: want 403, got %d", statusOf(t, err))
	}
	if err := DeleteDebrief(f.db, f.prof.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// the response is free for a fresh debrief again
	if _, err := CreateDebrief(f.db, f.prof.ID, f.response.ID, "Nouveau débrief."); err != nil {
		t.Fatalf("recreate after delete: %v", err)
	}
}
