package client

import (
	"log"

	"github.com/google/uuid"
)

// Notification is one user-visible toast.
type Notification struct {
	ID      string
	Kind    string // "success", "info", "error"
	Message string
}

const (
	NotifySuccess = "success"
	NotifyInfo    = "info"
	NotifyError   = "error"
)

// Notifier receives mutation outcomes mapped to user-visible messages.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the standard logger. It is the default
// sink when no UI is attached.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("[%s] %s", n.Kind, n.Message)
}

// CollectNotifier accumulates notifications in order. Used by the UI layer to
// render a toast stack, and by tests.
type CollectNotifier struct {
	Notifications []Notification
}

func (c *CollectNotifier) Notify(n Notification) {
	c.Notifications = append(c.Notifications, n)
}

func notify(n Notifier, kind string, message string) {
	if n == nil {
		return
	}

	n.Notify(Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
	})
}
