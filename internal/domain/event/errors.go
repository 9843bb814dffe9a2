package event

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrInvalidSlug       = errors.New("invalid slug")
)
