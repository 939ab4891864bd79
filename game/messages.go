// File: game/messages.go
package game

// --- Match Actor Messages ---

// MatchTick advances the hosted simulation by one step. The actor's own
// ticker sends it; tests may send it directly.
type MatchTick struct{}

// SetAction presses or releases one control for the hosted simulation.
type SetAction struct {
	Action  Action
	Pressed bool
}

// ReleaseActions lifts every held control, e.g. when a frontend disconnects.
type ReleaseActions struct{}

// GetSnapshot asks for the latest Snapshot. The reply is a Snapshot value.
type GetSnapshot struct{}

// --- Broadcaster Messages ---

// Subscribe registers a renderer for the snapshot stream under ID.
type Subscribe struct {
	ID       string
	Renderer Renderer
}

// Unsubscribe removes the renderer registered under ID.
type Unsubscribe struct {
	ID string
}

// BroadcastSnapshot carries one tick's snapshot to the broadcaster.
type BroadcastSnapshot struct {
	Snapshot Snapshot
}

// GetSubscriberCount asks the broadcaster how many renderers it holds. The
// reply is an int.
type GetSubscriberCount struct{}
