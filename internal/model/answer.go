package model

// AnswerMap maps a question id to the selected option value
type AnswerMap map[int]int

// Clone returns an independent copy of the map
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Scores are derived from an AnswerMap, never stored on their own
type Scores struct {
	Total       int `json:"total"`
	Structure   int `json:"structure"`
	Acquisition int `json:"acquisition"`
	Value       int `json:"value"`
}

// ScoreRequest is the body of the stateless scoring endpoint
type ScoreRequest struct {
	Answers map[string]int `json:"answers"`
}

// ScoreResponse is returned by the stateless scoring endpoint
type ScoreResponse struct {
	Scores  Scores  `json:"scores"`
	Segment Segment `json:"segment"`
}
