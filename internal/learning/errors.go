package learning

import "errors"

var (
	// ErrEmptyTopic is returned when a topic is blank after trimming.
	ErrEmptyTopic = errors.New("learning: topic is empty")

	// ErrInvalidPhase is returned when an operation is not allowed in the
	// current phase.
	ErrInvalidPhase = errors.New("learning: operation not allowed in current phase")

	// ErrAnswerOutOfRange is returned for an option index the current
	// question does not have. The answer is not counted.
	ErrAnswerOutOfRange = errors.New("learning: answer index out of range")

	// ErrInvalidQuestion is returned for a generated question that does not
	// have exactly one correct option.
	ErrInvalidQuestion = errors.New("learning: invalid question")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("learning: machine closed")
)
