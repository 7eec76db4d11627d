package service

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/users/user/model"
)

var dbSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:roster_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNormalizeEmails(t *testing.T) {
	in := []string{"  A@X.com ", "plainaddress", "", "b@y.org"}
	got := NormalizeEmails(in)
	want := []string{"a@x.com", "b@y.org"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseEmailList(t *testing.T) {
	got := ParseEmailList(" a@x.com, b@y.org ,, c@z.net")
	if len(got) != 3 || got[0] != "a@x.com" || got[2] != "c@z.net" {
		t.Fatalf("unexpected parse result: %v", got)
	}
}

func TestResolveOrCreateStudents(t *testing.T) {
	db := newTestDB(t)

	existing := model.UserModel{UserName: "a", Email: "a@x.com", Role: constants.RoleEtudiant}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	students, err := ResolveOrCreateStudents(db, []string{"a@x.com", "A@X.com", "new@y.com", "garbage"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(students))
	}

	var created model.UserModel
	if err := db.First(&created, "email = ?", "new@y.com").Error; err != nil {
		t.Fatalf("new@y.com was not created: %v", err)
	}
	if created.Role != constants.RoleEtudiant {
		t.Fatalf("created role = %q", created.Role)
	}
	if created.UserName != "new" {
		t.Fatalf("handle = %q, want new", created.UserName)
	}
	if created.Password != "" || created.FirstName != "" || created.LastName != "" {
		t.Fatal("created students must have no password and empty names")
	}
}

func TestHandleCollisionSuffixing(t *testing.T) {
	db := newTestDB(t)

	// "paul" and "paul1" are taken; the next account must become "paul2".
	for i, email := range []string{"paul@a.com", "paul@b.com"} {
		u := model.UserModel{UserName: map[int]string{0: "paul", 1: "paul1"}[i], Email: email, Role: constants.RoleEtudiant}
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	students, err := ResolveOrCreateStudents(db, []string{"paul@c.com"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 identity, got %d", len(students))
	}
	if students[0].UserName != "paul2" {
		t.Fatalf("handle = %q, want paul2", students[0].UserName)
	}
}

func TestResolveEmailsToIDsLookupOnly(t *testing.T) {
	db := newTestDB(t)

	known := model.UserModel{UserName: "k", Email: "k@x.com", Role: constants.RoleEtudiant}
	if err := db.Create(&known).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Encadrant with a matching email pattern must not resolve.
	enc := model.UserModel{UserName: "boss", Email: "boss@x.com", Role: constants.RoleEncadrant, Password: "x"}
	if err := db.Create(&enc).Error; err != nil {
		t.Fatalf("seed encadrant: %v", err)
	}

	res, err := ResolveEmailsToIDs(db, []string{" K@X.com ", "boss@x.com", "ghost@x.com", "bad"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.RequestedCount != 3 {
		t.Fatalf("requested = %d, want 3 (malformed dropped)", res.RequestedCount)
	}
	if res.FoundCount != 1 || len(res.IDs) != 1 || res.IDs[0] != known.ID {
		t.Fatalf("found = %+v", res)
	}
	if len(res.MissingEmails) != 2 {
		t.Fatalf("missing = %v", res.MissingEmails)
	}

	// lookup-only: nothing created
	var n int64
	db.Model(&model.UserModel{}).Count(&n)
	if n != 2 {
		t.Fatalf("user count changed: %d", n)
	}
}
