package model

// BlockID identifies the scoring block a question belongs to
type BlockID string

const (
	BlockStructure   BlockID = "structure"
	BlockAcquisition BlockID = "acquisition"
	BlockValue       BlockID = "value"
)

// Block describes a group of questions and its maximum score
type Block struct {
	ID          BlockID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxScore    int     `json:"maxScore"`
	FirstID     int     `json:"firstQuestionId"`
	LastID      int     `json:"lastQuestionId"`
}

// Contains reports whether the question id falls inside the block range
func (b Block) Contains(questionID int) bool {
	return questionID >= b.FirstID && questionID <= b.LastID
}

// Option is a scored answer choice. Value is both the weight and the selection key.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is an immutable diagnostic question
type Question struct {
	ID       int      `json:"id"`
	Block    BlockID  `json:"block"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Options  []Option `json:"options"`
}

// Option returns the option carrying value, if any
func (q *Question) Option(value int) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}
