//go:build !linux

package platform

import "errors"

// ErrNotificationsUnavailable indicates the desktop cannot show notifications.
var ErrNotificationsUnavailable = errors.New("notifications unavailable")

// NotificationsAvailable reports whether notifications can be delivered.
// Fyne asks the OS for permission on first use on macOS and Windows.
func NotificationsAvailable() error {
	return nil
}
