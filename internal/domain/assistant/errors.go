package assistant

import "errors"

var (
	// ErrNoGenerator is returned when a question needs the language model but none is configured.
	ErrNoGenerator = errors.New("assistant: no language model configured")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("assistant: empty question")
)
