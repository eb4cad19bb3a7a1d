package service

// EventFeed pushes purchase lifecycle events to connected admin panels.
// Implemented by the websocket hub; a nil feed disables publishing.
type EventFeed interface {
	Broadcast(payload any)
}
