package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/llm"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/repository"
)

const analystSystemPrompt = "Tu es un expert en conciergeries Airbnb. Tu réponds uniquement en JSON valide, sans formatage markdown."

const questionsContext = `BLOC 1 - STRUCTURE INTERNE (Q1-Q10, max 20 pts):
- Q1: Rôle au quotidien (opérationnel vs pilotage)
- Q2: Capacité à s'absenter 10 jours
- Q3: Clarté des rôles et responsabilités
- Q4: Répartition des fonctions clés
- Q5: Process écrits pour situations critiques
- Q6: Gestion des tâches (outils)
- Q7: Qualité du stack outils (PMS, automatisations)
- Q8: Synchronisation des informations
- Q9: Vision logement par logement (performance)
- Q10: Suivi des indicateurs clés (CA, marge, occupation)

BLOC 2 - MOTEUR D'ACQUISITION (Q11-Q19, max 18 pts):
- Q11: Origine des nouveaux propriétaires
- Q12: Capacité d'absorption de nouveaux logements
- Q13: Site internet (SEO local)
- Q14: Fiche Google My Business
- Q15: Réseaux sociaux côté propriétaires
- Q16: Gestion des leads propriétaires (CRM)
- Q17: Nurturing des "pas maintenant"
- Q18: Maîtrise des chiffres d'acquisition
- Q19: Prévisibilité globale de l'acquisition

BLOC 3 - VALEUR & REVENDABILITÉ (Q20-Q22, max 6 pts):
- Q20: Dépendance à la personne du gérant
- Q21: Qualité du portefeuille propriétaires (contrats)
- Q22: Regard d'un banquier/investisseur sur le business

SCORING:
- 0 = situation problématique/artisanale
- 1 = en cours de structuration mais fragile
- 2 = bien structuré/professionnel

SEGMENTS:
- 0-18 pts: "fragile" (conciergerie artisanale fragile)
- 19-32 pts: "transition" (entreprise en transition)
- 33-44 pts: "machine" (machine en devenir)`

var analysisSchema = &llm.Schema{
	Name:        "goodtime-analysis",
	Description: "Analyse personnalisée d'un diagnostic de conciergerie",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"diagSummary":            map[string]any{"type": "string"},
			"mainBlocker":            map[string]any{"type": "string"},
			"priority":               map[string]any{"type": "string"},
			"goodtimeRecommendation": map[string]any{"type": "string"},
			"structureAnalysis":      map[string]any{"type": "string"},
			"acquisitionAnalysis":    map[string]any{"type": "string"},
			"valueAnalysis":          map[string]any{"type": "string"},
			"valorisation":           map[string]any{"type": "string"},
			"roadmap": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{
			"diagSummary", "mainBlocker", "priority", "goodtimeRecommendation",
			"structureAnalysis", "acquisitionAnalysis", "valueAnalysis",
			"valorisation", "roadmap",
		},
		"additionalProperties": false,
	},
}

// generatedAnalysis is the part of the report written by the model
type generatedAnalysis struct {
	DiagSummary            string   `json:"diagSummary"`
	MainBlocker            string   `json:"mainBlocker"`
	Priority               string   `json:"priority"`
	GoodtimeRecommendation string   `json:"goodtimeRecommendation"`
	StructureAnalysis      string   `json:"structureAnalysis"`
	AcquisitionAnalysis    string   `json:"acquisitionAnalysis"`
	ValueAnalysis          string   `json:"valueAnalysis"`
	Valorisation           string   `json:"valorisation"`
	Roadmap                []string `json:"roadmap"`
}

// ErrInvalidAnswers is returned when the request carries unknown questions or values
var ErrInvalidAnswers = errors.New("invalid answers")

// AnalystService writes the personalised report behind /api/diagnostic/analyze
type AnalystService struct {
	provider    llm.Provider
	repo        repository.DiagnosticRepo
	bank        *diagnostic.Bank
	maxTokens   int
	temperature float64
	timeout     time.Duration
	now         func() time.Time
}

// NewAnalystService creates a new analyst service. provider and repo may be nil.
func NewAnalystService(provider llm.Provider, repo repository.DiagnosticRepo, bank *diagnostic.Bank) *AnalystService {
	return &AnalystService{
		provider:    provider,
		repo:        repo,
		bank:        bank,
		maxTokens:   800,
		temperature: 0.7,
		now:         time.Now,
	}
}

// SetGeneration overrides the token budget, temperature and per-call
// timeout. A zero timeout leaves the caller's deadline alone.
func (s *AnalystService) SetGeneration(maxTokens int, temperature float64, timeout time.Duration) {
	s.maxTokens = maxTokens
	s.temperature = temperature
	s.timeout = timeout
}

// Analyze produces the report for one finished diagnostic. The segment is
// always derived from the total score.
func (s *AnalystService) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	answers, err := diagnostic.ParseAnswers(s.bank, req.Answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	segment := diagnostic.Classify(req.Scores.Total)

	gen, err := s.generate(ctx, req, answers, segment)
	if err != nil {
		return nil, err
	}

	analysis := &model.Analysis{
		FirstName:              req.UserInfo.FirstName,
		LastName:               req.UserInfo.LastName,
		Email:                  req.UserInfo.Email,
		Phone:                  req.UserInfo.Phone,
		City:                   req.UserInfo.City,
		Units:                  req.UserInfo.Units,
		Segment:                string(segment.ID),
		Score:                  intRef(req.Scores.Total),
		StructureScore:         intRef(req.Scores.Structure),
		AcquisitionScore:       intRef(req.Scores.Acquisition),
		ValueScore:             intRef(req.Scores.Value),
		DiagSummary:            gen.DiagSummary,
		MainBlocker:            gen.MainBlocker,
		Priority:               gen.Priority,
		GoodtimeRecommendation: gen.GoodtimeRecommendation,
		StructureAnalysis:      gen.StructureAnalysis,
		AcquisitionAnalysis:    gen.AcquisitionAnalysis,
		ValueAnalysis:          gen.ValueAnalysis,
		Valorisation:           gen.Valorisation,
		Roadmap:                gen.Roadmap,
	}

	s.archive(ctx, analysis, req.Answers)
	return analysis, nil
}

func (s *AnalystService) generate(ctx context.Context, req model.AnalysisRequest, answers model.AnswerMap, segment model.Segment) (*generatedAnalysis, error) {
	if s.provider == nil {
		return fallbackAnalysis(req.UserInfo.FirstName), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      analystSystemPrompt,
		Prompt:      buildAnalysisPrompt(req, answers, segment),
		Schema:      analysisSchema,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			log.Printf("Analysis output rejected, using fallback: %v", err)
			return fallbackAnalysis(req.UserInfo.FirstName), nil
		}
		return nil, fmt.Errorf("generate analysis: %w", err)
	}

	var gen generatedAnalysis
	if err := json.Unmarshal(resp.Content, &gen); err != nil {
		log.Printf("Analysis output unreadable, using fallback: %v", err)
		return fallbackAnalysis(req.UserInfo.FirstName), nil
	}
	return &gen, nil
}

func (s *AnalystService) archive(ctx context.Context, analysis *model.Analysis, answers map[string]int) {
	if s.repo == nil {
		return
	}
	record := &model.DiagnosticRecord{
		Analysis:  *analysis,
		Answers:   answers,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		log.Printf("Warning: failed to archive diagnostic for %s: %v", analysis.Email, err)
	}
}

func buildAnalysisPrompt(req model.AnalysisRequest, answers model.AnswerMap, segment model.Segment) string {
	u := req.UserInfo
	var lines []string
	for _, id := range diagnostic.SortedIDs(answers) {
		lines = append(lines, fmt.Sprintf("Q%d: %d/2", id, answers[id]))
	}

	var b strings.Builder
	b.WriteString("Tu es un expert en structuration de conciergeries Airbnb/location courte durée.\n\n")
	fmt.Fprintf(&b, "Analyse ce diagnostic pour %s %s :\n\n", u.FirstName, u.LastName)
	b.WriteString("PROFIL:\n")
	fmt.Fprintf(&b, "- Ville: %s\n", u.City)
	fmt.Fprintf(&b, "- Logements gérés: %s\n\n", u.Units)
	b.WriteString("SCORES:\n")
	fmt.Fprintf(&b, "- Total: %d/%d\n", req.Scores.Total, diagnostic.MaxTotalScore)
	for _, blk := range diagnostic.Blocks {
		fmt.Fprintf(&b, "- %s: %d/%d\n", blk.Name, diagnostic.BlockScore(req.Scores, blk.ID), blk.MaxScore)
	}
	b.WriteString("\nRÉPONSES DÉTAILLÉES:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nCONTEXTE DES QUESTIONS:\n")
	b.WriteString(questionsContext)
	fmt.Fprintf(&b, "\n\nSEGMENT DÉTERMINÉ: %s\n\n", segment.ID)
	b.WriteString(`Génère une analyse personnalisée en français avec:

1. "diagSummary": 2-3 phrases qui résument la situation actuelle de manière directe et personnalisée (utilise le prénom)
2. "mainBlocker": le principal blocage identifié en 2-6 mots maximum
3. "priority": la priorité n°1 à traiter sur 90 jours (1 phrase concrète)
4. "goodtimeRecommendation": 3-5 phrases expliquant comment Goodtime peut aider concrètement (structuration + moteur d'acquisition local)
5. "structureAnalysis", "acquisitionAnalysis", "valueAnalysis": 2-3 phrases par bloc
6. "valorisation": 1-2 phrases sur ce que vaudrait l'activité aux yeux d'un repreneur
7. "roadmap": 3 à 5 actions concrètes, dans l'ordre

Ton: professionnel, direct, orienté business, pas "fun" ni enfantin. Sois franc et lucide.`)
	return b.String()
}

func fallbackAnalysis(firstName string) *generatedAnalysis {
	return &generatedAnalysis{
		DiagSummary:            firstName + ", ta conciergerie présente des axes d'amélioration importants. Une structuration plus poussée permettrait de libérer du temps et d'augmenter la valeur de ton activité.",
		MainBlocker:            diagnostic.DefaultMainBlocker,
		Priority:               "Définir et documenter les process clés de ton activité.",
		GoodtimeRecommendation: "Goodtime peut t'accompagner pour structurer ton activité et mettre en place un moteur d'acquisition local efficace. Nous t'aiderons à passer d'un modèle artisanal à une vraie entreprise avec des process clairs et une croissance prévisible.",
	}
}

func intRef(v int) *int {
	return &v
}
