package main

import (
	"context"
	"log"
	"time"

	"goodtime-diagnostic/internal/config"
	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/service"
)

// Posts one sample submission per segment to WEBHOOK_URL so CRM field
// mappings can be checked without going through the questionnaire.
func main() {
	cfg := config.Load()
	if cfg.WebhookURL == "" {
		log.Fatal("WEBHOOK_URL is required")
	}

	bank := diagnostic.DefaultBank()
	sink := service.NewWebhookSink(cfg.WebhookURL, cfg.WebhookTimeout)

	user := model.UserInfo{
		FirstName: "Test",
		LastName:  "Goodtime",
		Email:     "test@goodtime.fr",
		Phone:     "0600000000",
		City:      "Lyon",
	}

	samples := []struct {
		name  string
		value int
		qual  model.Qualification
	}{
		{"fragile", 0, sampleQualification(0)},
		{"transition", 1, sampleQualification(1)},
		{"machine", 2, sampleQualification(2)},
	}

	failed := 0
	for _, s := range samples {
		answers := model.AnswerMap{}
		for _, q := range bank.All() {
			answers[q.ID] = s.value
		}
		scores := diagnostic.ComputeScores(answers)
		display := diagnostic.MergeAnalysis(scores, nil)
		qual := s.qual
		sub := diagnostic.BuildSubmission(bank, user, &qual, answers, display, false, time.Now())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.WebhookTimeout)
		err := sink.Notify(ctx, sub)
		cancel()
		if err != nil {
			log.Printf("Failed to send %s sample: %v", s.name, err)
			failed++
			continue
		}
		log.Printf("Sent %s sample (score %d, segment %s)", s.name, scores.Total, sub.Segment)
	}

	if failed > 0 {
		log.Fatalf("%d of %d samples failed", failed, len(samples))
	}
	log.Println("Seeding complete")
}

// sampleQualification picks the i-th option of every qualification field,
// clamped to the last one
func sampleQualification(i int) model.Qualification {
	pick := func(key string) string {
		for _, f := range diagnostic.QualificationFields {
			if f.Key != key {
				continue
			}
			if i >= len(f.Options) {
				return f.Options[len(f.Options)-1].Value
			}
			return f.Options[i].Value
		}
		return ""
	}
	return model.Qualification{
		Units:             pick("units"),
		Goal12Months:      pick("objectif12Mois"),
		AverageCommission: pick("commissionMoyenne"),
		ResponseDelay:     pick("delaiReponse"),
		MonthlyBudget:     pick("budgetMensuel"),
		GoogleBusiness:    pick("googleBusiness"),
		Closing:           pick("closing"),
		Commitment12Month: pick("engagement12Mois"),
	}
}
