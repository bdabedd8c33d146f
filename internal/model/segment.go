package model

// SegmentID is the canonical segment identifier
type SegmentID string

const (
	SegmentFragile    SegmentID = "fragile"
	SegmentTransition SegmentID = "transition"
	SegmentMachine    SegmentID = "machine"
)

// Segment is a static score band with its display text
type Segment struct {
	ID               SegmentID `json:"id"`
	Name             string    `json:"name"`
	MinScore         int       `json:"minScore"`
	MaxScore         int       `json:"maxScore"`
	Message          string    `json:"message"`
	Risks            string    `json:"risks"`
	Axis             string    `json:"axis"`
	DetailedAnalysis string    `json:"detailedAnalysis"`
}
