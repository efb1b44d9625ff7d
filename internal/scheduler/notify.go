package scheduler

import "github.com/gen2brain/beeep"

// Notifier delivers a desktop notification.
type Notifier func(title, message string) error

// SendNotification shows a desktop notification with the default icon.
func SendNotification(title, message string) error {
	return beeep.Notify(title, message, "")
}
