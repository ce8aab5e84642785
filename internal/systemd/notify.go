// Package systemd lets the headless watcher run as a notify-type service:
// readiness, watchdog pings and a socket-activated metrics listener.
// Everything here is a no-op outside systemd.
package systemd

import (
	"fmt"
	"net"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"
)

// MetricsListenerName is the FileDescriptorName= of the metrics socket.
const MetricsListenerName = "metrics"

// MetricsListener returns the socket-activated metrics listener, if systemd
// passed one.
func MetricsListener() (net.Listener, bool, error) {
	if len(activation.Files(false)) == 0 {
		return nil, false, nil
	}

	named, err := activation.ListenersWithNames()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if lns, ok := named[MetricsListenerName]; ok && len(lns) > 0 && lns[0] != nil {
		return lns[0], true, nil
	}
	return nil, false, nil
}

// NotifyReady sends READY=1 notification to systemd
func NotifyReady() error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		return fmt.Errorf("failed to send sd_notify: %w", err)
	}
	return nil
}

// NotifyStopping sends STOPPING=1 notification to systemd
func NotifyStopping() error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		return fmt.Errorf("failed to send sd_notify stopping: %w", err)
	}
	return nil
}

// NotifyWatchdog sends WATCHDOG=1. The recompute loop calls it on every
// tick, so a stalled tracker trips WatchdogSec=.
func NotifyWatchdog() error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
		return fmt.Errorf("failed to send sd_notify watchdog: %w", err)
	}
	return nil
}

// Status sends a free-form STATUS= line shown by systemctl status.
func Status(text string) error {
	if _, err := daemon.SdNotify(false, "STATUS="+text); err != nil {
		return fmt.Errorf("failed to send sd_notify status: %w", err)
	}
	return nil
}
