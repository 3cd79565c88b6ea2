// Package systemd reports the daemon's lifecycle to systemd through the
// sd_notify protocol. Outside systemd every call is a silent no-op.
package systemd

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify states.
type Notifier struct {
	send func(state string) (bool, error)
}

func NewNotifier() *Notifier {
	return &Notifier{send: func(state string) (bool, error) { return daemon.SdNotify(false, state) }}
}

// Ready signals that startup finished (Type=notify units).
func (n *Notifier) Ready() error { return n.notify(daemon.SdNotifyReady) }

// Stopping signals an orderly shutdown.
func (n *Notifier) Stopping() error { return n.notify(daemon.SdNotifyStopping) }

// Status sets the free-form status shown by systemctl status.
func (n *Notifier) Status(s string) error { return n.notify("STATUS=" + s) }

func (n *Notifier) notify(state string) error {
	_, err := n.send(state)
	return err
}

// Watchdog pings the service watchdog at half its timeout until ctx is done.
// It returns at once when the unit has no watchdog.
func (n *Notifier) Watchdog(ctx context.Context) error {
	iv, err := daemon.SdWatchdogEnabled(false)
	if err != nil || iv == 0 {
		return err
	}
	t := time.NewTicker(iv / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := n.notify(daemon.SdNotifyWatchdog); err != nil {
				return err
			}
		}
	}
}
