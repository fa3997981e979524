package domain

import "time"

// State is the sender's position in the two-image submission flow.
type State string

const (
	StateAwaitingPerson  State = "awaiting_person"
	StateAwaitingGarment State = "awaiting_garment"
)

// Session tracks one sender's progress through the try-on flow.
// PersonImagePath is set exactly when State is StateAwaitingGarment.
type Session struct {
	Sender          string
	State           State
	PersonImagePath string
	LastSeen        time.Time
}
