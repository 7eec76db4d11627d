package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/users/user/model"
)

// ParseEmailList splits the comma-separated roster field used by the
// activity form.
func ParseEmailList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeEmails trims, lowercases and silently drops malformed
// entries (anything without an '@').
func NormalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || !strings.Contains(e, "@") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ResolveOrCreateStudents maps a raw email list to student accounts,
// creating missing ones. New accounts get a handle derived from the
// email's local part, suffixed with an incrementing number until it is
// free, an empty name, and no password (students authenticate through
// an activity code). The returned set is de-duplicated by identity.
func ResolveOrCreateStudents(db *gorm.DB, emails []string) ([]model.UserModel, error) {
	seen := make(map[uuid.UUID]struct{})
	students := make([]model.UserModel, 0, len(emails))

	for _, email := range NormalizeEmails(emails) {
		var user model.UserModel
		err := db.First(&user, "email = ? AND role = ?", email, constants.RoleEtudiant).Error
		switch {
		case err == nil:
			// existing account
		case errors.Is(err, gorm.ErrRecordNotFound):
			handle, herr := freeHandle(db, email)
			if herr != nil {
				return nil, herr
			}
			user = model.UserModel{
				UserName: handle,
				Email:    email,
				Role:     constants.RoleEtudiant,
			}
			if cerr := db.Create(&user).Error; cerr != nil {
				log.Printf("[WARN] could not create student account for %s: %v", email, cerr)
				continue
			}
		default:
			return nil, err
		}

		if _, dup := seen[user.ID]; dup {
			continue
		}
		seen[user.ID] = struct{}{}
		students = append(students, user)
	}
	return students, nil
}

func freeHandle(db *gorm.DB, email string) (string, error) {
	base := email[:strings.Index(email, "@")]
	handle := base
	for counter := 1; ; counter++ {
		var n int64
		if err := db.Model(&model.UserModel{}).Where("username = ?", handle).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return handle, nil
		}
		handle = fmt.Sprintf("%s%d", base, counter)
	}
}

// BulkResolveResult reports a lookup-only resolution so the client can
// reconcile which requested emails had no student account.
type BulkResolveResult struct {
	IDs            []uuid.UUID `json:"ids"`
	FoundCount     int         `json:"found_count"`
	RequestedCount int         `json:"requested_count"`
	MissingEmails  []string    `json:"missing_emails"`
}

// ResolveEmailsToIDs looks up student ids by email without creating
// anything.
func ResolveEmailsToIDs(db *gorm.DB, emails []string) (BulkResolveResult, error) {
	cleaned := NormalizeEmails(emails)
	result := BulkResolveResult{
		IDs:            []uuid.UUID{},
		RequestedCount: len(cleaned),
		MissingEmails:  []string{},
	}
	if len(cleaned) == 0 {
		return result, nil
	}

	var found []model.UserModel
	if err := db.Where("email IN ? AND role = ?", cleaned, constants.RoleEtudiant).Find(&found).Error; err != nil {
		return result, err
	}

	foundByEmail := make(map[string]struct{}, len(found))
	for _, u := range found {
		result.IDs = append(result.IDs, u.ID)
		foundByEmail[strings.ToLower(u.Email)] = struct{}{}
	}
	result.FoundCount = len(result.IDs)

	seen := make(map[string]struct{}, len(cleaned))
	for _, e := range cleaned {
		if _, ok := foundByEmail[e]; ok {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		result.MissingEmails = append(result.MissingEmails, e)
	}
	return result, nil
}
