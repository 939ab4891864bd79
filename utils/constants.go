package utils

import "time"

const (
	TicksPerSecond = 60

	// AskTimeout bounds how long HTTP handlers wait on the match actor.
	AskTimeout = 250 * time.Millisecond

	// ShutdownTimeout bounds engine shutdown on exit.
	ShutdownTimeout = 2 * time.Second
)
