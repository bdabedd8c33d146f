package model

// AverageScores are mean scores over finished diagnostics
type AverageScores struct {
	Total       float64 `json:"total"`
	Structure   float64 `json:"structure"`
	Acquisition float64 `json:"acquisition"`
	Value       float64 `json:"value"`
}

// Stats aggregates every diagnostic that reached the results step.
// Questions maps a question id to a count per selected value.
type Stats struct {
	Completed int64                 `json:"completed"`
	Segments  map[SegmentID]int64   `json:"segments"`
	Average   AverageScores         `json:"average"`
	Questions map[int]map[int]int64 `json:"questions"`
}
