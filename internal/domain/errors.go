package domain

import "errors"

var (
	// ErrGameNotFound is returned when no live session owns the given PIN.
	ErrGameNotFound = errors.New("game not found")
	// ErrNotHost is returned when a non-host connection attempts a host-only operation.
	ErrNotHost = errors.New("only the host may perform this action")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoActiveQuestion is returned for answers submitted outside an active question.
	ErrNoActiveQuestion = errors.New("no active question")
)
