package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"troublemaker_backend/internals/constants"
)

// UserModel represents the users table. Students carry no password;
// they authenticate through an activity code.
type UserModel struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserName  string         `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"column:password;size:255" json:"-"`
	FirstName string         `gorm:"column:first_name;size:150" json:"first_name"`
	LastName  string         `gorm:"column:last_name;size:150" json:"last_name"`
	Role      constants.Role `gorm:"column:role;type:varchar(20);not null;default:'etudiant'" json:"role"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns the id so inserts work the same on Postgres and
// the SQLite test database.
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) IsEtudiant() bool  { return u.Role == constants.RoleEtudiant }
func (u *UserModel) IsEncadrant() bool { return u.Role == constants.RoleEncadrant }

// FullName falls back to username, then email, mirroring what the
// frontend shows in rosters.
func (u *UserModel) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	case u.UserName != "":
		return u.UserName
	}
	return u.Email
}
