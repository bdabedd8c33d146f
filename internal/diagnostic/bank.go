// Package diagnostic holds the fixed question bank and the pure scoring,
// segmentation, merge and validation rules of the diagnostic.
package diagnostic

import "goodtime-diagnostic/internal/model"

// Blocks lists the three scoring blocks in display order
var Blocks = []model.Block{
	{
		ID:          model.BlockStructure,
		Name:        "Structure interne",
		Description: "Organisation, process et outils",
		MaxScore:    20,
		FirstID:     1,
		LastID:      10,
	},
	{
		ID:          model.BlockAcquisition,
		Name:        "Moteur d'acquisition",
		Description: "Canaux et stratégie de croissance",
		MaxScore:    18,
		FirstID:     11,
		LastID:      19,
	},
	{
		ID:          model.BlockValue,
		Name:        "Valeur & revendabilité",
		Description: "Valeur patrimoniale et indépendance",
		MaxScore:    6,
		FirstID:     20,
		LastID:      22,
	},
}

// MaxTotalScore is the sum of every block maximum
const MaxTotalScore = 44

// Bank is an ordered, read-only list of questions
type Bank struct {
	questions []model.Question
	byID      map[int]int
}

// NewBank indexes questions by id. Ids must be unique.
func NewBank(questions []model.Question) *Bank {
	b := &Bank{
		questions: questions,
		byID:      make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		b.byID[q.ID] = i
	}
	return b
}

// DefaultBank returns the 22-question diagnostic
func DefaultBank() *Bank {
	return NewBank(questions)
}

// Len returns the number of questions
func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at position i of the flow
func (b *Bank) At(i int) (*model.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return nil, false
	}
	return &b.questions[i], true
}

// ByID returns a question by id
func (b *Bank) ByID(id int) (*model.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return &b.questions[i], true
}

// All returns a copy of the ordered question list
func (b *Bank) All() []model.Question {
	out := make([]model.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// BlockFor returns the block owning a question id
func BlockFor(questionID int) (model.Block, bool) {
	for _, blk := range Blocks {
		if blk.Contains(questionID) {
			return blk, true
		}
	}
	return model.Block{}, false
}

func opts(labels ...string) []model.Option {
	out := make([]model.Option, len(labels))
	for i, l := range labels {
		out[i] = model.Option{Value: i, Label: l}
	}
	return out
}

var questions = []model.Question{
	// Structure interne (Q1-Q10)
	{
		ID:    1,
		Block: model.BlockStructure,
		Title: "Ton rôle au quotidien",
		Options: opts(
			"80–90 % de mon temps est dans l'opérationnel (voyageurs, ménage, litiges, urgences).",
			"Je jongle entre opérationnel et pilotage, mais je retombe vite dans l'opérationnel dès qu'il y a un problème.",
			"Mon rôle est clairement orienté pilotage, stratégie, chiffres et closing. Je ne suis plus le pompier de service.",
		),
	},
	{
		ID:    2,
		Block: model.BlockStructure,
		Title: "Ton absence pendant 10 jours",
		Options: opts(
			"Si je disparais 10 jours, la conciergerie s'écroule.",
			"Ça tiendrait plus ou moins, mais avec pas mal de risques et de tension.",
			"La structure est pensée pour fonctionner sans moi pendant 10 jours (même si ce n'est pas parfait).",
		),
	},
	{
		ID:    3,
		Block: model.BlockStructure,
		Title: "Rôles & responsabilités",
		Options: opts(
			"Tout le monde touche à tout, rien n'est vraiment défini.",
			"Les rôles sont plus ou moins clairs, mais c'est surtout dans ma tête ou à l'oral.",
			"J'ai un organigramme simple, des rôles clairement définis, chacun sait ce qu'il doit faire.",
		),
	},
	{
		ID:       4,
		Block:    model.BlockStructure,
		Title:    "Répartition des fonctions clés",
		Subtitle: "(gestion terrain / voyageurs / propriétaires / pricing / pilotage)",
		Options: opts(
			"Une ou deux personnes (dont moi) gèrent quasiment tout.",
			"Les fonctions sont identifiées, mais mal réparties ou en doublon.",
			"Les grandes fonctions sont distribuées, même si certains cumulent plusieurs casquettes, c'est assumé et clair.",
		),
	},
	{
		ID:       5,
		Block:    model.BlockStructure,
		Title:    "Process écrits pour les situations critiques",
		Subtitle: "(onboarding logement, création/MAJ d'annonce, ménage, incidents, onboarding propriétaire)",
		Options: opts(
			"Tout se fait au feeling, via WhatsApp et mémoire.",
			"On a quelques process, mais incomplets ou rarement suivis.",
			"Les 5 situations clés sont documentées et utilisées par l'équipe.",
		),
	},
	{
		ID:    6,
		Block: model.BlockStructure,
		Title: "Gestion des tâches",
		Options: opts(
			"Les tâches passent par WhatsApp / SMS / appels, sans vue globale.",
			"On a un mélange d'outils (feuilles, groupes, etc.) mais rien de centralisé.",
			"On utilise un outil central (ou un combo clair) pour assigner, suivre et clôturer les tâches.",
		),
	},
	{
		ID:       7,
		Block:    model.BlockStructure,
		Title:    "Qualité de ton stack outils",
		Subtitle: "(PMS, channel manager, Goodtime, etc.)",
		Options: opts(
			"C'est un patchwork bricolé, avec beaucoup de manipulations manuelles.",
			"On a commencé à automatiser, mais je rattrape souvent à la main.",
			"Notre stack est réfléchie : les automatisations réduisent vraiment la charge opérationnelle.",
		),
	},
	{
		ID:       8,
		Block:    model.BlockStructure,
		Title:    "Synchronisation des informations",
		Subtitle: "(réservations, ménage, facturation, suivi propriétaires)",
		Options: opts(
			"Je recopie souvent à la main, ou je jongle avec des exports.",
			"C'est partiellement synchronisé, mais il y a encore des ratés et des doublons.",
			"Les flux sont alignés, on a très peu de ressaisies manuelles.",
		),
	},
	{
		ID:    9,
		Block: model.BlockStructure,
		Title: "Vision logement par logement",
		Options: opts(
			"Je ne connais pas précisément la performance de chaque logement.",
			"Je peux retrouver les infos avec du temps et des tableaux Excel.",
			"J'ai des tableaux / dashboards qui me donnent régulièrement CA, marge et intérêt de chaque logement.",
		),
	},
	{
		ID:       10,
		Block:    model.BlockStructure,
		Title:    "Suivi des indicateurs clés",
		Subtitle: "(CA, marge, taux d'occupation, churn propriétaires, etc.)",
		Options: opts(
			"Je ne suis quasiment aucun indicateur.",
			"Je suis 1 ou 2 indicateurs de temps en temps.",
			"Je suis les indicateurs clés chaque mois avec un minimum d'historique.",
		),
	},

	// Moteur d'acquisition (Q11-Q19)
	{
		ID:    11,
		Block: model.BlockAcquisition,
		Title: "Origine des nouveaux propriétaires",
		Options: opts(
			"C'est surtout du hasard / bouche-à-oreille / opportunités ponctuelles.",
			"J'ai quelques canaux (site, GMB, réseaux) mais sans vraie stratégie.",
			"Mes canaux d'acquisition sont identifiés, priorisés et suivis.",
		),
	},
	{
		ID:    12,
		Block: model.BlockAcquisition,
		Title: "Capacité d'absorption de nouveaux logements",
		Options: opts(
			"Je prends ce qui arrive, sans vraie limite ni calcul.",
			"J'ai un chiffre en tête mais il n'est pas vraiment relié à ma structure.",
			"Je connais ma capacité d'intégration par mois sans exploser, et j'ajuste l'acquisition en fonction.",
		),
	},
	{
		ID:    13,
		Block: model.BlockAcquisition,
		Title: "Site internet",
		Options: opts(
			"Pas de site, ou site vitrine basique jamais mis à jour.",
			"Site présent mais peu de trafic / pas de stratégie SEO locale.",
			"Site pensé pour capter des propriétaires, avec pages locales et formulaires dédiés.",
		),
	},
	{
		ID:    14,
		Block: model.BlockAcquisition,
		Title: "Fiche Google My Business (ou équivalent local)",
		Options: opts(
			"Inexistante ou abandonnée.",
			"Existante avec quelques avis, mais peu active.",
			"Optimisée, alimentée, avec avis réguliers : vraie vitrine locale pour les propriétaires.",
		),
	},
	{
		ID:    15,
		Block: model.BlockAcquisition,
		Title: "Réseaux sociaux côté propriétaires",
		Options: opts(
			"Je ne poste presque rien ou seulement pour les voyageurs.",
			"Je communique un peu, sans ligne directrice claire.",
			"J'utilise les réseaux pour prouver mon sérieux auprès des propriétaires (preuves sociales, cas concrets, coulisses).",
		),
	},
	{
		ID:    16,
		Block: model.BlockAcquisition,
		Title: "Gestion des leads propriétaires",
		Options: opts(
			"Tout finit dans mon téléphone, je gère au fil de l'eau.",
			"J'ai un semblant de suivi (tableur, notes) mais c'est artisanal.",
			"Chaque lead entre dans un pipeline / CRM avec étapes claires (qualification, rendez-vous, relance).",
		),
	},
	{
		ID:    17,
		Block: model.BlockAcquisition,
		Title: "Nurturing des \"pas maintenant\"",
		Options: opts(
			"Je les oublie ou je me dis que je les relancerai un jour.",
			"Je relance de temps en temps, sans structure.",
			"J'ai des séquences prévues pour rester dans leur radar sans y penser tous les jours.",
		),
	},
	{
		ID:    18,
		Block: model.BlockAcquisition,
		Title: "Maîtrise de tes chiffres d'acquisition",
		Options: opts(
			"Je ne sais pas vraiment combien de leads je reçois ni combien je convertis.",
			"J'ai une idée approximative de mes volumes et de mon taux de conversion.",
			"Je connais mes chiffres (leads/mois, conversions, coût en temps/argent) et je peux les optimiser.",
		),
	},
	{
		ID:    19,
		Block: model.BlockAcquisition,
		Title: "Prévisibilité globale de ton acquisition",
		Options: opts(
			"Je vis surtout au rythme du hasard et des plateformes.",
			"J'ai des choses en place, mais c'est encore fragile / irrégulier.",
			"J'ai un moteur d'acquisition posé sur des rails : chaque mois, des lits tombent de façon prévisible.",
		),
	},

	// Valeur & revendabilité (Q20-Q22)
	{
		ID:    20,
		Block: model.BlockValue,
		Title: "Dépendance à ta personne",
		Options: opts(
			"Si je vends demain, presque tout repose encore sur moi.",
			"Certaines choses tournent sans moi, mais l'acheteur dépendrait encore beaucoup de ma présence.",
			"Mon rôle est déjà remplaçable : je pilote, mais je ne suis pas le système.",
		),
	},
	{
		ID:    21,
		Block: model.BlockValue,
		Title: "Qualité du portefeuille propriétaires",
		Options: opts(
			"Contrats courts/précaires, très liés à ma relation perso.",
			"Contrats corrects, mais encore très centrés sur moi.",
			"Contrats structurés, onboarding propre, expérience claire : la relation est avec la conciergerie, pas uniquement avec ma personne.",
		),
	},
	{
		ID:    22,
		Block: model.BlockValue,
		Title: "Regard d'un banquier / investisseur",
		Options: opts(
			"Il verrait surtout une personne débordée et une structure fragile.",
			"Il verrait une activité qui tourne, mais avec beaucoup de dépendances et de flou.",
			"Il verrait un business avec chiffres, système, process et moteur d'acquisition : un actif finançable et revendable.",
		),
	},
}
