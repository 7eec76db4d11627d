package dto

import (
	"github.com/google/uuid"

	"troublemaker_backend/internals/constants"
	"troublemaker_backend/internals/features/users/user/model"
)

type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	UserName  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      constants.Role `json:"role"`
}

// EtudiantListDTO is the short roster entry shown in activity details.
type EtudiantListDTO struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	NomComplet string    `json:"nom_complet"`
}

type ResolveEmailsRequest struct {
	Emails []string `json:"emails" validate:"required"`
}

func ToUserDTO(m model.UserModel) UserDTO {
	return UserDTO{
		ID:        m.ID,
		UserName:  m.UserName,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      m.Role,
	}
}

func ToEtudiantListDTO(m model.UserModel) EtudiantListDTO {
	return EtudiantListDTO{ID: m.ID, Email: m.Email, NomComplet: m.FullName()}
}
