package domain

import "errors"

var (
	// ErrInvalidInstant indicates a task timestamp could not be parsed.
	ErrInvalidInstant = errors.New("invalid instant")

	// ErrInvalidMode indicates an unknown calendar mode.
	ErrInvalidMode = errors.New("invalid calendar mode")

	// ErrInvalidAnchor indicates a date anchor that does not fit its mode.
	ErrInvalidAnchor = errors.New("invalid date anchor")

	// ErrInvalidSortOrder indicates a sort order other than nearest or farthest.
	ErrInvalidSortOrder = errors.New("invalid sort order")

	// ErrInvalidTaskStatus indicates an empty status value.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrUnknownAction indicates a filter store action that does not exist.
	ErrUnknownAction = errors.New("unknown filter action")

	// ErrTaskNotFound indicates no task with the given identifier is loaded.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSourceUnavailable indicates the task, team or employee source failed.
	ErrSourceUnavailable = errors.New("data source unavailable")
)
