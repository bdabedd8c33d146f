package diagnostic

import (
	"strings"

	"goodtime-diagnostic/internal/model"
)

// Segments are contiguous, non-overlapping and cover [0, MaxTotalScore]
var Segments = []model.Segment{
	{
		ID:       model.SegmentFragile,
		Name:     "Conciergerie artisanale fragile",
		MinScore: 0,
		MaxScore: 18,
		Message:  "Tu as surtout un job amélioré, pas une entreprise.",
		Risks:    "Épuisement, valeur de revente faible, dépendance totale à toi.",
		Axis:     "Prioriser la structuration : process, rôles, sortie de l'opérationnel.",
		DetailedAnalysis: "Ta conciergerie fonctionne, mais elle dépend entièrement de toi. Chaque jour qui passe te rapproche de l'épuisement, et la valeur de ce que tu as construit reste faible, parce que sans toi, il n'y a rien.\n\n" +
			"Tu n'as pas construit une entreprise. Tu t'es créé un job, certes flexible, mais qui te bouffe ton temps et ton énergie. La vraie question : veux-tu continuer comme ça, ou veux-tu enfin poser les bases d'une structure qui tient sans toi ?",
	},
	{
		ID:       model.SegmentTransition,
		Name:     "Entreprise en transition",
		MinScore: 19,
		MaxScore: 32,
		Message:  "Tu as mis des choses en place, mais il y a encore trop de trous dans la raquette.",
		Risks:    "Plafond de verre, difficulté à scaler, moteur d'acquisition sous-exploité.",
		Axis:     "Consolider structure + installer un moteur d'acquisition simple mais régulier.",
		DetailedAnalysis: "Tu es sur la bonne voie. Des fondations existent, tu as commencé à déléguer, à structurer, à poser des process. Mais la machine n'est pas encore autonome.\n\n" +
			"Tu ressens probablement un plafond de verre : tu ne peux pas vraiment scaler sans te replonger dans l'opérationnel. Et ton acquisition reste trop dépendante du hasard ou du bouche-à-oreille.\n\n" +
			"La prochaine étape ? Consolider ce qui existe et installer un vrai moteur d'acquisition : simple, régulier, prévisible.",
	},
	{
		ID:       model.SegmentMachine,
		Name:     "Machine en devenir",
		MinScore: 33,
		MaxScore: 44,
		Message:  "Tu es en avance sur la plupart du marché.",
		Risks:    "Optimisation, scaling propre, maximisation de la valeur de revente et crédibilité bancaire.",
		Axis:     "Raffiner le moteur d'acquisition, affiner les chiffres, sécuriser l'équipe.",
		DetailedAnalysis: "Bravo. Tu fais partie des rares gérants qui ont compris que leur conciergerie devait devenir une vraie entreprise.\n\n" +
			"Tu as des process, une vision claire de ta performance, un début de moteur d'acquisition. La structure tourne même quand tu n'es pas là.\n\n" +
			"Mais \"en avance\" ne veut pas dire \"terminé\". Il reste des leviers à activer : affiner tes chiffres, renforcer l'équipe, optimiser l'acquisition pour scaler sereinement, et peut-être, un jour, revendre un actif solide.",
	},
}

// Classify maps a total score to its segment. Upper bounds are inclusive;
// negative totals land in fragile and totals above 44 in machine.
func Classify(total int) model.Segment {
	switch {
	case total <= 18:
		return Segments[0]
	case total <= 32:
		return Segments[1]
	default:
		return Segments[2]
	}
}

// SegmentByID looks up a segment, accepting the legacy "artisanal" alias
func SegmentByID(id string) (model.Segment, bool) {
	norm := NormalizeSegmentID(id)
	for _, s := range Segments {
		if s.ID == norm {
			return s, true
		}
	}
	return model.Segment{}, false
}

// NormalizeSegmentID lowercases an id and folds "artisanal" into fragile
func NormalizeSegmentID(id string) model.SegmentID {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "artisanal" {
		return model.SegmentFragile
	}
	return model.SegmentID(id)
}
