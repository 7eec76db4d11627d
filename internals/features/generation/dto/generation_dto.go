package dto

// GeneratedAffirmation is one authoring-assist suggestion. Statements
// coming back from the model are always marked false regardless of
// what it claims.
type GeneratedAffirmation struct {
	Text        string `json:"affirmation"`
	IsCorrectVF bool   `json:"is_correct_vf"`
	Explanation string `json:"explication"`
}

type GenerateRequest struct {
	Number   int    `json:"number" validate:"required,min=1,max=10"`
	Question string `json:"question" validate:"required"`
}

type GenerateFalseRequest struct {
	Question string `json:"question" validate:"required"`
}

type MakeHarderRequest struct {
	Affirmation string `json:"affirmation" validate:"required"`
	Explanation string `json:"explanation"`
}

type MakeHarderResponse struct {
	Affirmation string `json:"affirmation"`
	Explanation string `json:"explanation"`
	IsCorrect   bool   `json:"is_correct"`
}

type AffirmationsPayload struct {
	Affirmations []GeneratedAffirmation `json:"affirmations"`
}
