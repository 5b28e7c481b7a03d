package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrToolNotFound         = errors.New("tool not found")
	ErrUnknownInput         = errors.New("unknown input")
	ErrInvalidRate          = errors.New("invalid rate")
	ErrUnknownCurrency      = errors.New("unknown currency")
	ErrUnknownUnit          = errors.New("unknown unit")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrLastProject          = errors.New("cannot delete the last project")
	ErrAssistantBusy        = errors.New("assistant request already in flight")
	ErrAlreadyExists        = errors.New("already exists")
	ErrResultUnavailable    = errors.New("result unavailable")
)
