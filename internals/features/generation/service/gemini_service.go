package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"troublemaker_backend/internals/features/generation/dto"
)

// Engine wraps the Gemini API for the authoring-assist endpoints. A
// client is opened per call; the upstream SDK keeps no useful state
// between requests.
type Engine struct {
	APIKey string
	Model  string
}

func NewEngine(apiKey, model string) *Engine {
	return &Engine{APIKey: apiKey, Model: model}
}

func (e *Engine) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	if e.APIKey == "" {
		return "", fiber.NewError(fiber.StatusBadGateway, "Le service de génération n'est pas configuré.")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Le service de génération est indisponible.")
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(e.Model))
	cfg := genai.GenerationConfig{
		Temperature: ptrFloat32(0.9),
		TopP:        ptrFloat32(0.95),
		TopK:        ptrInt32(40),
	}
	if jsonOutput {
		cfg.ResponseMIMEType = "application/json"
	}
	m.GenerationConfig = cfg

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Le service de génération est indisponible.")
	}
	text := collectText(resp)
	if text == "" {
		return "", fiber.NewError(fiber.StatusBadGateway, "Le service de génération a renvoyé une réponse vide.")
	}
	return text, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// GenerateAffirmations produces a mixed batch of true and false
// statements for a question, number of items chosen by the caller.
func (e *Engine) GenerateAffirmations(ctx context.Context, question string, number int) ([]dto.GeneratedAffirmation, error) {
	prompt := fmt.Sprintf(`Vous êtes un expert en connaissances médicales. Produisez exactement %d affirmations médicales, mélangeant vraies et fausses, qui répondent directement à la question : "%s".

Chaque affirmation doit être précise, scientifiquement formulée et accompagnée d'une explication.

Réponds uniquement avec un objet JSON structuré comme ceci, sans texte avant ou après :
{"affirmations": [{"affirmation": "...", "is_correct_vf": true, "explication": "..."}]}`, number, question)

	raw, err := e.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	payload, err := parseAffirmations(raw)
	if err != nil {
		return nil, err
	}
	if len(payload.Affirmations) == 0 {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Format de réponse incorrect depuis le service de génération.")
	}
	return payload.Affirmations, nil
}

// GenerateFalseAffirmations produces exactly three false but plausible
// statements for a question. The model's own is_correct_vf values are
// overridden: whatever it claims, the batch is false.
func (e *Engine) GenerateFalseAffirmations(ctx context.Context, question string) ([]dto.GeneratedAffirmation, error) {
	prompt := fmt.Sprintf(`Vous êtes un expert en connaissances médicales. Votre tâche consiste à produire des affirmations médicales fausses mais plausibles qui répondent directement à la question : "%s".

Chaque affirmation doit :
1. Être complexe et difficile à juger comme fausse au premier abord.
2. Paraître scientifiquement plausible et liée au sujet médical de la question.
3. Être directement en lien avec le contexte fourni.

Les affirmations doivent toutes être fausses, mais paraître scientifiquement crédibles.

Réponds uniquement avec un objet JSON structuré comme ceci, sans texte avant ou après :
{"affirmations": [{"affirmation": "...", "is_correct_vf": false, "explication": "..."}, {"affirmation": "...", "is_correct_vf": false, "explication": "..."}, {"affirmation": "...", "is_correct_vf": false, "explication": "..."}]}`, question)

	raw, err := e.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	payload, err := parseAffirmations(raw)
	if err != nil {
		return nil, err
	}
	if len(payload.Affirmations) != 3 {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Format de réponse incorrect (nombre/structure) depuis le service de génération.")
	}
	return forceFalse(payload.Affirmations), nil
}

// MakeHarder reformulates one false statement to be more subtle while
// staying false, updating the explanation alongside.
func (e *Engine) MakeHarder(ctx context.Context, affirmation, explanation string) (*dto.MakeHarderResponse, error) {
	prompt := fmt.Sprintf(`En tant qu'expert médical, votre tâche consiste à rendre cette affirmation médicale fausse encore plus difficile à détecter comme étant fausse.

Affirmation originale : %s
Explication originale de pourquoi elle est fausse : %s

Veuillez reformuler cette affirmation pour la rendre encore plus plausible et difficile à reconnaître comme étant fausse.
L'affirmation doit :
1. Rester dans le même domaine mais être plus subtile
2. Utiliser des termes techniques plus avancés
3. Paraître encore plus crédible scientifiquement
4. Conserver la même idée de base mais la rendre plus nuancée et complexe
5. Rester fausse pour les mêmes raisons fondamentales

Formatez votre réponse comme suit :

Affirmation améliorée : <insérez ici l'affirmation plus difficile>
Explication améliorée : <expliquez pourquoi cette affirmation est fausse>`, affirmation, explanation)

	raw, err := e.generate(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	improved, improvedExpl := parseHarderReply(raw, affirmation, explanation)
	return &dto.MakeHarderResponse{
		Affirmation: improved,
		Explanation: improvedExpl,
		IsCorrect:   false,
	}, nil
}

var (
	fenceOpen  = regexp.MustCompile("(?m)^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("(?m)\\s*```$")
	jsonBlock  = regexp.MustCompile(`(?s)(\[.*\]|\{.*\})`)

	harderAffirmation = regexp.MustCompile(`Affirmation améliorée\s*:\s*(.*)`)
	harderExplanation = regexp.MustCompile(`Explication améliorée\s*:\s*(.*)`)
)

// stripFences removes markdown code fences the model sometimes wraps
// its JSON in despite the MIME instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func parseAffirmations(raw string) (*dto.AffirmationsPayload, error) {
	cleaned := stripFences(raw)

	var payload dto.AffirmationsPayload
	if err := sonic.UnmarshalString(cleaned, &payload); err == nil {
		return &payload, nil
	}
	// Salvage: take the first JSON-looking block out of surrounding
	// prose.
	if m := jsonBlock.FindString(cleaned); m != "" {
		if err := sonic.UnmarshalString(m, &payload); err == nil {
			return &payload, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadGateway, "Impossible de décoder la réponse JSON du service de génération.")
}

func forceFalse(items []dto.GeneratedAffirmation) []dto.GeneratedAffirmation {
	for i := range items {
		items[i].IsCorrectVF = false
	}
	return items
}

// parseHarderReply pulls the two labeled lines out of the plain-text
// reply, falling back to the originals when a label is missing.
func parseHarderReply(raw, fallbackAffirmation, fallbackExplanation string) (string, string) {
	affirmation := fallbackAffirmation
	explanation := fallbackExplanation
	if m := harderAffirmation.FindStringSubmatch(raw); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			affirmation = v
		}
	}
	if m := harderExplanation.FindStringSubmatch(raw); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			explanation = v
		}
	}
	return affirmation, explanation
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
