package service

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/assessment/activities/dto"
	"troublemaker_backend/internals/features/assessment/activities/model"
	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
	userModel "troublemaker_backend/internals/features/users/user/model"
)

var dbSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:activity_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&affirmationModel.AffirmationModel{},
		&model.ActivityModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newEncadrant(t *testing.T, db *gorm.DB, handle string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{UserName: handle, Email: handle + "@e.com", Role: constants.RoleEncadrant}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create encadrant: %v", err)
	}
	return u
}

func newEtudiant(t *testing.T, db *gorm.DB, email string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{UserName: email[:len(email)-6], Email: email, Role: constants.RoleEtudiant}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create etudiant: %v", err)
	}
	return u
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("expected *fiber.Error, got %T: %v", err, err)
	}
	return fe.Code
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateActivityNormalizesAndWiresRoster(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")
	known := newEtudiant(t, db, "a@x.com")

	aff := affirmationModel.AffirmationModel{Text: "L'eau bout à 100°C.", Format: affirmationModel.FormatVraiFaux}
	if err := db.Create(&aff).Error; err != nil {
		t.Fatalf("create affirmation: %v", err)
	}

	created, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:            "bio1",
		Title:           "  Biologie  ",
		Format:          affirmationModel.FormatVraiFaux,
		EtudiantIDs:     []uuid.UUID{known.ID},
		EtudiantsEmails: "a@x.com, new@y.com",
		AffirmationIDs:  []uint{aff.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "BIO1" {
		t.Fatalf("code not normalized: %q", created.Code)
	}
	if created.Title != "Biologie" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.LearnerType != model.LearnerInterne {
		t.Fatalf("default learner type: %q", created.LearnerType)
	}
	// a@x.com arrives twice (by id and by email) and must count once;
	// new@y.com gets a fresh account.
	if len(created.Students) != 2 {
		t.Fatalf("roster size: want 2, got %d", len(created.Students))
	}
	if len(created.Affirmations) != 1 {
		t.Fatalf("attached statements: want 1, got %d", len(created.Affirmations))
	}

	var ghost userModel.UserModel
	if err := db.First(&ghost, "email = ?", "new@y.com").Error; err != nil {
		t.Fatalf("email-provisioned student missing: %v", err)
	}
	if ghost.Role != constants.RoleEtudiant {
		t.Fatalf("provisioned role: %q", ghost.Role)
	}
}

func TestCreateActivityDuplicateCode(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")

	req := dto.CreateActivityRequest{Code: "BIO1", Title: "Biologie", Format: affirmationModel.FormatVraiFaux}
	if _, err := CreateActivity(db, prof.ID, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// case-insensitive collision after normalization
	req.Code = "bio1"
	_, err := CreateActivity(db, prof.ID, req)
	if statusOf(t, err) != fiber.StatusConflict {
		t.Fatalf("want 409, got %d", statusOf(t, err))
	}
}

func TestCreateActivityUnknownAffirmation(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")

	_, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:           "BIO1",
		Title:          "Biologie",
		Format:         affirmationModel.FormatVraiFaux,
		AffirmationIDs: []uint{999},
	})
	if statusOf(t, err) != fiber.StatusBadRequest {
		t.Fatalf("want 400, got %d", statusOf(t, err))
	}
	// the transaction must roll the activity back
	var n int64
	db.Model(&model.ActivityModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("activity persisted despite rollback, %d rows", n)
	}
}

func TestPublicationGate(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")
	other := newEncadrant(t, db, "other")
	etu := newEtudiant(t, db, "s@e.com")

	created, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:            "BIO1",
		Title:           "Biologie",
		Format:          affirmationModel.FormatVraiFaux,
		EtudiantsEmails: "s@e.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.IsPublished {
		t.Fatal("activities must start as drafts")
	}

	// draft: invisible to the enrolled student, present for the owner
	if _, err := GetForActor(db, etu.ID, false, "BIO1"); statusOf(t, err) != fiber.StatusNotFound {
		t.Fatalf("student draft detail: want 404, got %d", statusOf(t, err))
	}
	if _, err := GetForActor(db, prof.ID, true, "bio1"); err != nil {
		t.Fatalf("owner draft detail: %v", err)
	}
	// a different encadrant is refused, not hidden
	if _, err := GetForActor(db, other.ID, true, "BIO1"); statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign encadrant: want 403, got %d", statusOf(t, err))
	}

	list, total, err := ListForActor(db, etu.ID, false, 0, 20)
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(list) != 0 || total != 0 {
		t.Fatalf("draft leaked into student list: %d entries, total %d", len(list), total)
	}

	// publish, then the student sees it
	if _, err := UpdateActivity(db, prof.ID, "BIO1", dto.UpdateActivityRequest{IsPublished: boolPtr(true)}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := GetForActor(db, etu.ID, false, "BIO1"); err != nil {
		t.Fatalf("published detail for enrolled student: %v", err)
	}
	list, total, err = ListForActor(db, etu.ID, false, 0, 20)
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(list) != 1 || total != 1 {
		t.Fatalf("published activity missing from student list: %d entries, total %d", len(list), total)
	}

	// published but not enrolled: still a 404
	stranger := newEtudiant(t, db, "x@e.com")
	if _, err := GetForActor(db, stranger.ID, false, "BIO1"); statusOf(t, err) != fiber.StatusNotFound {
		t.Fatalf("unenrolled student: want 404, got %d", statusOf(t, err))
	}
}

func TestListForActorPaging(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")

	for _, code := range []string{"BIO1", "BIO2", "BIO3"} {
		if _, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
			Code:   code,
			Title:  "Biologie " + code,
			Format: affirmationModel.FormatVraiFaux,
		}); err != nil {
			t.Fatalf("create %s: %v", code, err)
		}
	}

	page, total, err := ListForActor(db, prof.ID, true, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size: want 2, got %d", len(page))
	}
	if total != 3 {
		t.Fatalf("total: want 3, got %d", total)
	}

	rest, total, err := ListForActor(db, prof.ID, true, 2, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(rest) != 1 || total != 3 {
		t.Fatalf("second page: want 1 of 3, got %d of %d", len(rest), total)
	}
}

func TestUpdateActivityOwnershipAndPartial(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")
	other := newEncadrant(t, db, "other")

	if _, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:   "BIO1",
		Title:  "Biologie",
		Format: affirmationModel.FormatVraiFaux,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := UpdateActivity(db, other.ID, "BIO1", dto.UpdateActivityRequest{Title: strPtr("Pris")}); statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign update: want 403, got %d", statusOf(t, err))
	}

	updated, err := UpdateActivity(db, prof.ID, "BIO1", dto.UpdateActivityRequest{Title: strPtr("Biologie II")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Biologie II" {
		t.Fatalf("title: %q", updated.Title)
	}
	if updated.Format != affirmationModel.FormatVraiFaux {
		t.Fatal("untouched fields must survive a partial update")
	}
}

func TestUpdateActivityReplacesRoster(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")

	if _, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:            "BIO1",
		Title:           "Biologie",
		Format:          affirmationModel.FormatVraiFaux,
		EtudiantsEmails: "a@x.com, b@x.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := UpdateActivity(db, prof.ID, "BIO1", dto.UpdateActivityRequest{
		EtudiantsEmails: strPtr("c@x.com"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Students) != 1 || updated.Students[0].Email != "c@x.com" {
		t.Fatalf("roster not replaced: %+v", updated.Students)
	}
}

func TestDeleteActivity(t *testing.T) {
	db := newTestDB(t)
	prof := newEncadrant(t, db, "prof")
	other := newEncadrant(t, db, "other")

	if _, err := CreateActivity(db, prof.ID, dto.CreateActivityRequest{
		Code:            "BIO1",
		Title:           "Biologie",
		Format:          affirmationModel.FormatVraiFaux,
		EtudiantsEmails: "s@e.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := DeleteActivity(db, other.ID, "BIO1"); statusOf(t, err) != fiber.StatusForbidden {
		t.Fatalf("foreign delete: want 403, got %d", statusOf(t, err))
	}
	if err := DeleteActivity(db, prof.ID, "bio1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int64
	db.Model(&model.ActivityModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("activity still present after delete")
	}
	db.Table("activity_students").Count(&n)
	if n != 0 {
		t.Fatalf("roster links left behind: %d", n)
	}
	// the provisioned student account itself stays
	db.Model(&userModel.UserModel{}).Where("role = ?", constants.RoleEtudiant).Count(&n)
	if n != 1 {
		t.Fatalf("student account should survive activity deletion, got %d", n)
	}
}
