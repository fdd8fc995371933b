package session

// EventKind names an applied session transition.
type EventKind string

const (
	EventStarted      EventKind = "started"
	EventGemCollected EventKind = "gem_collected"
	EventKeyCollected EventKind = "key_collected"
	EventDoorOpened   EventKind = "door_opened"
	EventWon          EventKind = "won"
	EventRestarted    EventKind = "restarted"
)

// Event is delivered to the observer after a transition has been applied.
type Event struct {
	Kind     EventKind
	State    State
	Snapshot SessionState
}
