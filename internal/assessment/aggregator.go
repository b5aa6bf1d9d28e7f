package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownQuestion means a response referenced a question ID that is
	// not in the catalog.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidResponse means a response value is not one of the allowed
	// answers.
	ErrInvalidResponse = errors.New("invalid response value")
)

// State is the questionnaire progress.
type State string

const (
	StateCollecting State = "collecting"
	StateComplete   State = "complete"
)

// Aggregator collects answers one at a time and rescores after each one.
// It is not safe for concurrent use.
type Aggregator struct {
	responses Responses
	result    Result
}

// NewAggregator returns an empty aggregator positioned at the first question.
func NewAggregator() *Aggregator {
	a := &Aggregator{responses: Responses{}}
	a.result = Compute(a.responses)
	return a
}

// Restore rebuilds an aggregator from previously recorded responses, for
// resuming an assessment. Every entry is validated.
func Restore(responses Responses) (*Aggregator, error) {
	a := NewAggregator()
	for id, v := range responses {
		if err := validate(id, v); err != nil {
			return nil, err
		}
		a.responses[id] = v
	}
	a.result = Compute(a.responses)
	return a, nil
}

func validate(questionID string, value int) error {
	if _, ok := questionIndex[questionID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if !ValidValue(value) {
		return fmt.Errorf("%w: %d", ErrInvalidResponse, value)
	}
	return nil
}

// RecordResponse stores the answer for a question, replacing any earlier
// answer, and returns the freshly computed result.
func (a *Aggregator) RecordResponse(questionID string, value int) (Result, error) {
	if err := validate(questionID, value); err != nil {
		return Result{}, err
	}
	a.responses[questionID] = value
	a.result = Compute(a.responses)
	return a.result, nil
}

// Reset clears every answer.
func (a *Aggregator) Reset() {
	a.responses = Responses{}
	a.result = Compute(a.responses)
}

// State reports whether every catalog question has been answered.
func (a *Aggregator) State() State {
	if a.Answered() == len(questions) {
		return StateComplete
	}
	return StateCollecting
}

// Answered is the number of distinct questions answered so far.
func (a *Aggregator) Answered() int {
	return len(a.responses)
}

// CurrentQuestion returns the first unanswered question in catalog order.
// The second return value is false once the questionnaire is complete.
func (a *Aggregator) CurrentQuestion() (Question, bool) {
	for _, q := range questions {
		if _, ok := a.responses[q.ID]; !ok {
			return q, true
		}
	}
	return Question{}, false
}

// Result returns the result for the current responses.
func (a *Aggregator) Result() Result {
	return a.result
}

// Responses returns a copy of the recorded answers.
func (a *Aggregator) Responses() Responses {
	return a.responses.Clone()
}
