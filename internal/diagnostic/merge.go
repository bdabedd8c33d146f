package diagnostic

import (
	"strings"

	"goodtime-diagnostic/internal/model"
)

// Static texts used when the remote analysis omits a field
const (
	DefaultMainBlocker    = "Structuration insuffisante"
	DefaultRecommendation = "Goodtime accompagne les conciergeries à passer d'un modèle artisanal à une entreprise structurée avec un moteur d'acquisition local qui fait tomber des lits chaque mois. Si tu veux qu'on regarde ensemble ce qu'il faut structurer en priorité, réserve un créneau."
)

// MergeAnalysis builds the results display model. Remote fields win
// wherever present; every other field falls back to the static segment
// derived from the local scores. Local block scores are always kept next
// to any remote override.
func MergeAnalysis(scores model.Scores, remote *model.Analysis) model.DisplayModel {
	static := Classify(scores.Total)
	if remote == nil {
		remote = &model.Analysis{}
	}

	d := model.DisplayModel{
		Segment:     static.ID,
		SegmentName: static.Name,
		SegmentFrom: model.SourceStatic,

		Score:       mergeScore(scores.Total, MaxTotalScore, remote.Score),
		Structure:   mergeScore(scores.Structure, Blocks[0].MaxScore, remote.StructureScore),
		Acquisition: mergeScore(scores.Acquisition, Blocks[1].MaxScore, remote.AcquisitionScore),
		Value:       mergeScore(scores.Value, Blocks[2].MaxScore, remote.ValueScore),

		Summary:             mergeText(remote.DiagSummary, static.Message),
		MainBlocker:         mergeText(remote.MainBlocker, DefaultMainBlocker),
		Priority:            mergeText(remote.Priority, static.Axis),
		Recommendation:      mergeText(remote.GoodtimeRecommendation, DefaultRecommendation),
		StructureAnalysis:   mergeText(remote.StructureAnalysis, ""),
		AcquisitionAnalysis: mergeText(remote.AcquisitionAnalysis, ""),
		ValueAnalysis:       mergeText(remote.ValueAnalysis, ""),
		Valorisation:        mergeText(remote.Valorisation, ""),
		RoadmapFrom:         model.SourceStatic,

		Risks: static.Risks,
		Axis:  static.Axis,
	}

	if seg, ok := SegmentByID(remote.Segment); ok {
		d.Segment = seg.ID
		d.SegmentName = seg.Name
		d.SegmentFrom = model.SourceRemote
	}

	if len(remote.Roadmap) > 0 {
		d.Roadmap = append([]string(nil), remote.Roadmap...)
		d.RoadmapFrom = model.SourceRemote
	}

	if !HasRemoteText(remote) {
		d.DetailedAnalysis = static.DetailedAnalysis
	}

	return d
}

// HasRemoteText reports whether the analysis carries any narrative field
func HasRemoteText(a *model.Analysis) bool {
	if a == nil {
		return false
	}
	for _, s := range []string{
		a.DiagSummary, a.MainBlocker, a.Priority, a.GoodtimeRecommendation,
		a.StructureAnalysis, a.AcquisitionAnalysis, a.ValueAnalysis, a.Valorisation,
	} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return len(a.Roadmap) > 0
}

func mergeText(remote, fallback string) model.DisplayText {
	if t := strings.TrimSpace(remote); t != "" {
		return model.DisplayText{Text: t, Source: model.SourceRemote}
	}
	return model.DisplayText{Text: fallback, Source: model.SourceStatic}
}

// mergeScore accepts a remote override only inside [0, max]
func mergeScore(local, max int, remote *int) model.DisplayScore {
	ds := model.DisplayScore{Value: local, Local: local, Max: max, Source: model.SourceLocal}
	if remote != nil && *remote >= 0 && *remote <= max {
		ds.Value = *remote
		ds.Source = model.SourceRemote
	}
	return ds
}
