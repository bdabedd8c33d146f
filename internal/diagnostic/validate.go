package diagnostic

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"goodtime-diagnostic/internal/model"
)

// User facing notices
const (
	NoticeMissingFields = "Veuillez remplir tous les champs"
	NoticeConditions    = "Veuillez accepter les conditions pour continuer"
	NoticeAnalysisError = "Erreur lors de l'analyse. Les résultats affichés sont la version standard."
)

const msgRequired = "Ce champ est requis"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s-]{10,}$`)
)

// ValidationError carries per-field messages and the toast notice of a
// rejected step. Fields is keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
	Notice string            `json:"notice"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// ValidateUserInfo checks the identity step. It returns nil when every
// field is acceptable.
func ValidateUserInfo(u model.UserInfo) *ValidationError {
	fields := map[string]string{}

	if strings.TrimSpace(u.FirstName) == "" {
		fields["firstName"] = "Le prénom est requis"
	}
	if strings.TrimSpace(u.LastName) == "" {
		fields["lastName"] = "Le nom est requis"
	}

	switch email := strings.TrimSpace(u.Email); {
	case email == "":
		fields["email"] = "L'email est requis"
	case !emailPattern.MatchString(email):
		fields["email"] = "Email invalide"
	}

	switch phone := strings.TrimSpace(u.Phone); {
	case phone == "":
		fields["phone"] = "Le téléphone est requis"
	case !phonePattern.MatchString(strings.Join(strings.Fields(phone), "")):
		fields["phone"] = "Numéro de téléphone invalide"
	}

	if strings.TrimSpace(u.City) == "" {
		fields["city"] = "La ville est requise"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields, Notice: NoticeMissingFields}
}

// NormalizeUserInfo trims every identity field
func NormalizeUserInfo(u model.UserInfo) model.UserInfo {
	return model.UserInfo{
		FirstName: strings.TrimSpace(u.FirstName),
		LastName:  strings.TrimSpace(u.LastName),
		Email:     strings.TrimSpace(u.Email),
		Phone:     strings.TrimSpace(u.Phone),
		City:      strings.TrimSpace(u.City),
	}
}

// QualificationFields is the catalogue of the qualification dropdowns
var QualificationFields = []model.QualificationField{
	{Key: "units", Label: "Logements actuels", Options: []model.ChoiceOption{
		{Value: "1-5", Label: "1 à 5 logements"},
		{Value: "6-15", Label: "6 à 15 logements"},
		{Value: "16-30", Label: "16 à 30 logements"},
		{Value: "31-50", Label: "31 à 50 logements"},
		{Value: "51-100", Label: "51 à 100 logements"},
		{Value: "100+", Label: "Plus de 100 logements"},
	}},
	{Key: "objectif12Mois", Label: "Objectif à 12 mois", Options: []model.ChoiceOption{
		{Value: "stable", Label: "Maintenir mon portefeuille actuel"},
		{Value: "+5-10", Label: "+5 à 10 logements"},
		{Value: "+10-20", Label: "+10 à 20 logements"},
		{Value: "+20-50", Label: "+20 à 50 logements"},
		{Value: "+50", Label: "+50 logements ou plus"},
	}},
	{Key: "commissionMoyenne", Label: "Commission moyenne par logement / an", Options: []model.ChoiceOption{
		{Value: "<1500", Label: "Moins de 1 500 €"},
		{Value: "1500-2500", Label: "1 500 € à 2 500 €"},
		{Value: "2500-4000", Label: "2 500 € à 4 000 €"},
		{Value: "4000-6000", Label: "4 000 € à 6 000 €"},
		{Value: ">6000", Label: "Plus de 6 000 €"},
	}},
	{Key: "delaiReponse", Label: "Délai de réponse aux leads aujourd'hui", Options: []model.ChoiceOption{
		{Value: "<1h", Label: "Moins d'1 heure"},
		{Value: "1-4h", Label: "1 à 4 heures"},
		{Value: "4-24h", Label: "4 à 24 heures"},
		{Value: "24-48h", Label: "24 à 48 heures"},
		{Value: ">48h", Label: "Plus de 48 heures"},
		{Value: "variable", Label: "Variable / pas de suivi"},
	}},
	{Key: "budgetMensuel", Label: "Budget mensuel prêt à investir pour la croissance", Options: []model.ChoiceOption{
		{Value: "0", Label: "0 € - Je ne veux pas investir"},
		{Value: "500-1000", Label: "De 500 € à 1 000 €"},
		{Value: "1000-3000", Label: "De 1 000 € à 3 000 €"},
		{Value: "3000-5000", Label: "De 3 000 € à 5 000 €"},
		{Value: ">5000", Label: "+ de 5 000 €"},
	}},
	{Key: "googleBusiness", Label: "Avez-vous une fiche Google Business ? Combien d'avis ?", Options: []model.ChoiceOption{
		{Value: "non", Label: "Non, je n'ai pas de fiche"},
		{Value: "oui-0", Label: "Oui, mais 0 avis"},
		{Value: "oui-1-10", Label: "Oui, 1 à 10 avis"},
		{Value: "oui-10-30", Label: "Oui, 10 à 30 avis"},
		{Value: "oui-30+", Label: "Oui, plus de 30 avis"},
	}},
	{Key: "closing", Label: "Qui s'occupe du closing ?", Options: []model.ChoiceOption{
		{Value: "moi", Label: "Moi uniquement"},
		{Value: "moi-equipe", Label: "Moi + un membre de l'équipe"},
		{Value: "equipe", Label: "Un membre de l'équipe dédié"},
		{Value: "personne", Label: "Personne de dédié / au fil de l'eau"},
	}},
	{Key: "engagement12Mois", Label: "Prêt à t'engager sur 12 mois pour structurer ta conciergerie ?", Options: []model.ChoiceOption{
		{Value: "oui", Label: "Oui, je suis prêt"},
		{Value: "non", Label: "Non, pas pour l'instant"},
	}},
}

func qualificationValues(q model.Qualification) map[string]string {
	return map[string]string{
		"units":             q.Units,
		"objectif12Mois":    q.Goal12Months,
		"commissionMoyenne": q.AverageCommission,
		"delaiReponse":      q.ResponseDelay,
		"budgetMensuel":     q.MonthlyBudget,
		"googleBusiness":    q.GoogleBusiness,
		"closing":           q.Closing,
		"engagement12Mois":  q.Commitment12Month,
	}
}

// ValidateQualification requires all eight fields, each holding one of the
// catalogued values.
func ValidateQualification(q model.Qualification) *ValidationError {
	values := qualificationValues(q)
	fields := map[string]string{}

	for _, f := range QualificationFields {
		v := strings.TrimSpace(values[f.Key])
		if v == "" {
			fields[f.Key] = msgRequired
			continue
		}
		if _, ok := QualificationLabel(f.Key, v); !ok {
			fields[f.Key] = "Valeur invalide"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields, Notice: NoticeMissingFields}
}

// QualificationLabel returns the display label of a catalogued value
func QualificationLabel(key, value string) (string, bool) {
	for _, f := range QualificationFields {
		if f.Key != key {
			continue
		}
		for _, o := range f.Options {
			if o.Value == value {
				return o.Label, true
			}
		}
	}
	return "", false
}

// ValidateConditions gates the validation step
func ValidateConditions(accepted bool) *ValidationError {
	if accepted {
		return nil
	}
	return &ValidationError{
		Fields: map[string]string{"acceptConditions": NoticeConditions},
		Notice: NoticeConditions,
	}
}
