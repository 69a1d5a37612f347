package services

import "errors"

var (
	// ErrInvalidInput is returned for malformed requests rejected before any I/O
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the referenced record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientCredits is returned when a debit would take the balance below zero
	ErrInsufficientCredits = errors.New("insufficient credits")
)
