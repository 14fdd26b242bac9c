// Package notify carries user-facing messages produced by storefront operations.
package notify

import "sync"

// Level is the visual weight of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one human-readable message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// Recorder is a Sink that keeps notifications in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Sink.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func Info(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
func Warning(msg string) Notification { return Notification{Level: LevelWarning, Message: msg} }
func Error(msg string) Notification   { return Notification{Level: LevelError, Message: msg} }
