package service

// Broadcaster pushes game events to subscribed clients. The WebSocket hub
// implements it.
type Broadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data any)
}

// BroadcasterFunc adapts a function to the Broadcaster interface.
type BroadcasterFunc func(gameID, eventType string, data any)

func (f BroadcasterFunc) BroadcastGameEvent(gameID, eventType string, data any) {
	f(gameID, eventType, data)
}

// NoopBroadcaster drops every event; used when no hub is running.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}
