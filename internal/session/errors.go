package session

import "errors"

var (
	ErrEmptyInput        = errors.New("input text cannot be empty")
	ErrBusy              = errors.New("a quiz is already being generated")
	ErrNoQuestions       = errors.New("no questions were generated")
	ErrNotActive         = errors.New("no quiz in progress")
	ErrInvalidTransition = errors.New("action not available in the current view")
	ErrIndexOutOfRange   = errors.New("question index out of range")
	ErrAlreadySaved      = errors.New("quiz already saved")
	ErrAbandoned         = errors.New("generation result discarded")
)
