package model

// UserInfo is the identity collected on the user info step
type UserInfo struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	City      string `json:"city" bson:"city"`
}

// Qualification is the business profile collected before the questions.
// JSON keys match the CRM webhook field names.
type Qualification struct {
	Units             string `json:"units"`
	Goal12Months      string `json:"objectif12Mois"`
	AverageCommission string `json:"commissionMoyenne"`
	ResponseDelay     string `json:"delaiReponse"`
	MonthlyBudget     string `json:"budgetMensuel"`
	GoogleBusiness    string `json:"googleBusiness"`
	Closing           string `json:"closing"`
	Commitment12Month string `json:"engagement12Mois"`
}

// ChoiceOption is one entry of a qualification dropdown
type ChoiceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QualificationField describes a qualification dropdown and its allowed values
type QualificationField struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Options []ChoiceOption `json:"options"`
}
