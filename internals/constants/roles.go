package constants

import "fmt"

// Role is the closed set of actor roles. Anything else is rejected at
// construction time, never stored.
type Role string

const (
	RoleEtudiant  Role = "etudiant"
	RoleEncadrant Role = "encadrant"
)

var AllRoles = []Role{RoleEtudiant, RoleEncadrant}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Error message templates used by the role middleware.
const (
	ErrOnlyEncadrantsCanAccess = "Seuls les encadrants peuvent accéder à %s."
	ErrOnlyEtudiantsCanAccess  = "Seuls les étudiants peuvent accéder à %s."
)

func RoleErrorEncadrant(feature string) string {
	return fmt.Sprintf(ErrOnlyEncadrantsCanAccess, feature)
}

func RoleErrorEtudiant(feature string) string {
	return fmt.Sprintf(ErrOnlyEtudiantsCanAccess, feature)
}
