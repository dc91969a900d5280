// Package inference is the client side of the ML sidecar that hosts the
// pretrained models (symptom triage, emotion classification, medical QA
// retrieval, translation). Every call returns a Result whose Status keeps
// "no model" apart from "the model answered".
package inference

import "fmt"

// Status is the outcome of a collaborator call.
type Status int

const (
	// StatusOK means Value holds the model's answer.
	StatusOK Status = iota
	// StatusUnavailable means no model is configured or loaded.
	StatusUnavailable
	// StatusTransientError means the call failed; Err says why.
	StatusTransientError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusTransientError:
		return "transient_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries a value or the reason there is none.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

func Unavailable[T any]() Result[T] {
	return Result[T]{Status: StatusUnavailable}
}

func Transient[T any](err error) Result[T] {
	return Result[T]{Status: StatusTransientError, Err: err}
}

// Emotion is the emotion classifier's label and probability.
type Emotion struct {
	Label      string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Answer is the best QA retrieval match and its similarity.
type Answer struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}
