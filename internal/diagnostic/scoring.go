package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"goodtime-diagnostic/internal/model"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidValue    = errors.New("invalid option value")
)

// ComputeScores sums answer values per block. Partial maps are allowed.
// Pairs with an id outside 1-22 or a value outside 0-2 contribute nothing,
// so Total always equals the sum of the three blocks.
func ComputeScores(answers model.AnswerMap) model.Scores {
	var s model.Scores
	for id, value := range answers {
		if value < 0 || value > 2 {
			continue
		}
		blk, ok := BlockFor(id)
		if !ok {
			continue
		}
		s.Total += value
		switch blk.ID {
		case model.BlockStructure:
			s.Structure += value
		case model.BlockAcquisition:
			s.Acquisition += value
		case model.BlockValue:
			s.Value += value
		}
	}
	return s
}

// BlockScore returns the score of one block
func BlockScore(s model.Scores, id model.BlockID) int {
	switch id {
	case model.BlockStructure:
		return s.Structure
	case model.BlockAcquisition:
		return s.Acquisition
	case model.BlockValue:
		return s.Value
	}
	return 0
}

// ParseAnswers converts wire answers (stringified ids) into an AnswerMap,
// checking every pair against the bank.
func ParseAnswers(bank *Bank, raw map[string]int) (model.AnswerMap, error) {
	out := make(model.AnswerMap, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, k)
		}
		q, ok := bank.ByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
		}
		if _, ok := q.Option(v); !ok {
			return nil, fmt.Errorf("%w: question %d has no option %d", ErrInvalidValue, id, v)
		}
		out[id] = v
	}
	return out, nil
}

// WireAnswers converts an AnswerMap into the stringified-id form
func WireAnswers(answers model.AnswerMap) map[string]int {
	out := make(map[string]int, len(answers))
	for id, v := range answers {
		out[strconv.Itoa(id)] = v
	}
	return out
}

// SortedIDs returns the answered question ids in ascending order
func SortedIDs(answers model.AnswerMap) []int {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
