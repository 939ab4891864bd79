package bollywood

// Actor is the interface that defines actor behavior.
// Actors process messages sequentially received from their mailbox.
type Actor interface {
	Receive(ctx Context)
}

// --- System Messages ---

// Started is sent to an actor after its goroutine has started.
type Started struct{}

// Stopping is sent to an actor to signal it should release its resources.
// No more user messages will be delivered after Stopping.
type Stopping struct{}

// Stopped is sent to an actor just before its goroutine exits.
type Stopped struct{}

// messageEnvelope wraps a user message with sender information.
// replyCh is set only for deliveries made through Engine.Ask.
type messageEnvelope struct {
	sender  *PID
	message interface{}
	replyCh chan interface{}
}

func isSystemMessage(message interface{}) bool {
	switch message.(type) {
	case Started, Stopping, Stopped:
		return true
	}
	return false
}
