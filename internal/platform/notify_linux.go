package platform

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotificationsUnavailable indicates the desktop cannot show notifications.
var ErrNotificationsUnavailable = errors.New("notifications unavailable")

// NotificationsAvailable reports whether a session bus is reachable for
// freedesktop notifications.
func NotificationsAvailable() error {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return nil
	}
	socket := fmt.Sprintf("/run/user/%d/bus", os.Getuid())
	if _, err := os.Stat(socket); err == nil {
		return nil
	}
	return fmt.Errorf("%w: no D-Bus session bus", ErrNotificationsUnavailable)
}
