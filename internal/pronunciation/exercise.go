package pronunciation

import "errors"

// ErrExerciseComplete is returned when an attempt is submitted after the last
// word has already been passed.
var ErrExerciseComplete = errors.New("exercise already complete")

// Exercise walks a child through a list of words. The current word only
// advances when an attempt passes; failed attempts can be retried without limit.
type Exercise struct {
	targets []WordTarget
	index   int
	last    *Result
}

// NewExercise starts an exercise at the first target.
func NewExercise(targets []WordTarget) *Exercise {
	return ResumeExercise(targets, 0)
}

// ResumeExercise rebuilds an exercise positioned at index. Out of range
// indexes are clamped.
func ResumeExercise(targets []WordTarget, index int) *Exercise {
	if index < 0 {
		index = 0
	}
	if index > len(targets) {
		index = len(targets)
	}
	return &Exercise{targets: targets, index: index}
}

// Current returns the word the child should say next.
func (e *Exercise) Current() (WordTarget, bool) {
	if e.Complete() {
		return WordTarget{}, false
	}
	return e.targets[e.index], true
}

// Index is the zero-based position of the current word.
func (e *Exercise) Index() int { return e.index }

// Total is the number of words in the exercise.
func (e *Exercise) Total() int { return len(e.targets) }

// Complete reports whether every word has been passed.
func (e *Exercise) Complete() bool { return e.index >= len(e.targets) }

// LastResult returns the most recent scored attempt, or nil.
func (e *Exercise) LastResult() *Result { return e.last }

// Submit scores an attempt against the current word and advances on a pass.
// ErrNoSpeech leaves the exercise untouched.
func (e *Exercise) Submit(attempt Attempt) (Result, error) {
	target, ok := e.Current()
	if !ok {
		return Result{}, ErrExerciseComplete
	}

	result, err := Score(attempt, target)
	if err != nil {
		return Result{}, err
	}

	e.last = &result
	if result.Passed {
		e.index++
	}
	return result, nil
}
