package service

import (
	"fmt"

	affirmationModel "troublemaker_backend/internals/features/assessment/affirmations/model"
)

// ShapeError is a field-scoped validation failure. It never reaches
// the database: shape checks run before any persistence attempt.
type ShapeError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateAnswerShape decides whether an answer payload is legal for a
// statement's declared format:
//
//	format 2 → reponse_choisie_qcm must be null, reponse_vf free
//	format 4 → reponse_vf must be null, reponse_choisie_qcm null or 1..4
//
// Both fields non-null is rejected regardless of format (ambiguous
// intent). Both null is the explicit "no answer" state and is allowed.
func ValidateAnswerShape(format int, vf *bool, qcm *int) *ShapeError {
	if vf != nil && qcm != nil {
		return &ShapeError{Field: "reponse_vf", Message: "réponse V/F et QCM fournies simultanément"}
	}

	switch format {
	case affirmationModel.FormatVraiFaux:
		if qcm != nil {
			return &ShapeError{Field: "reponse_choisie_qcm", Message: "réponse QCM non permise pour une affirmation Vrai/Faux"}
		}
	case affirmationModel.FormatQCM:
		if vf != nil {
			return &ShapeError{Field: "reponse_vf", Message: "réponse V/F non permise pour une affirmation QCM"}
		}
		if qcm != nil && (*qcm < 1 || *qcm > 4) {
			return &ShapeError{Field: "reponse_choisie_qcm", Message: "la réponse QCM doit être comprise entre 1 et 4"}
		}
	default:
		// Unreachable for stored statements: formats outside {2,4} are
		// rejected at statement creation.
		return &ShapeError{Field: "affirmation", Message: fmt.Sprintf("format d'affirmation invalide (%d)", format)}
	}
	return nil
}
