package config

import "time"

const (
	// Media download timeout and size cap
	FetchTimeout  = 30 * time.Second
	MaxImageBytes = 10 << 20

	// Per-attempt bound for the inference call
	InferenceTimeout = 60 * time.Second

	// Eviction sweep interval
	SessionSweepInterval = 60 * time.Second
)
