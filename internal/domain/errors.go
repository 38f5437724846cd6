package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
	ErrCategoryRequired    = errors.New("category is required")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrInvalidTimeRange    = errors.New("unknown time range mode")
	ErrMissingCustomRange  = errors.New("custom range requires both start and end dates")
	ErrNoGoals             = errors.New("no goals to allocate to")
	ErrAllocationFailed    = errors.New("all goal updates failed")
)
