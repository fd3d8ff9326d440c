package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when the collected values still fail validation
	// after the allowed number of correction rounds.
	ErrInvalid = errors.New("tui: values failed validation")
)
