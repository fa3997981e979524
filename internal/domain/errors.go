package domain

import "errors"

var (
	ErrFetch            = errors.New("image fetch failed")
	ErrInference        = errors.New("try-on inference failed")
	ErrNoMedia          = errors.New("event has no media attachment")
	ErrSessionInvariant = errors.New("session invariant violated")
)
