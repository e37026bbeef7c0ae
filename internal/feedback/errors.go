package feedback

import "errors"

var (
	// ErrEmptyMessage is returned when the feedback text is blank
	ErrEmptyMessage = errors.New("feedback message is required")

	// ErrInvalidSentiment is returned for an unknown sentiment label
	ErrInvalidSentiment = errors.New("sentiment must be positive, negative or neutral")
)
