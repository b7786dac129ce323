//go:build windows

package infra

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	// REG_NOTIFY_CHANGE_NAME notifies the caller if a subkey is added or deleted.
	regNotifyChangeName uint32 = 0x00000001
	// REG_NOTIFY_CHANGE_ATTRIBUTES notifies the caller of changes to the attributes of the key.
	regNotifyChangeAttributes uint32 = 0x00000002
	// REG_NOTIFY_CHANGE_LAST_SET notifies the caller of changes to a value of the key.
	regNotifyChangeLastSet uint32 = 0x00000004
	// REG_NOTIFY_CHANGE_SECURITY notifies the caller of changes to the security descriptor of the key.
	regNotifyChangeSecurity uint32 = 0x00000008
	// REG_NOTIFY_THREAD_AGNOSTIC decouples the registration from the calling thread (Windows 8+).
	regNotifyThreadAgnostic uint32 = 0x10000000

	regLegalChangeFilter = regNotifyChangeName | regNotifyChangeAttributes |
		regNotifyChangeLastSet | regNotifyChangeSecurity

	// waitSlice bounds each WaitForSingleObject so ctx is checked regularly.
	waitSlice uint32 = 500
)

// registryNotifier watches a key under HKEY_CURRENT_USER and all its subkeys.
type registryNotifier struct {
	mu    sync.Mutex
	path  string
	key   registry.Key
	event windows.Handle
	armed bool
}

// NewRegistryNotifier opens path for notification and arms the first
// subscription. Errors here mean the watch cannot be established.
func NewRegistryNotifier(path string) (Notifier, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, path, registry.NOTIFY)
	if err != nil {
		return nil, fmt.Errorf("registry.OpenKey(%s): %w", path, err)
	}

	event, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		key.Close()
		return nil, fmt.Errorf("windows.CreateEvent: %w", err)
	}

	n := &registryNotifier{path: path, key: key, event: event}
	if err := n.arm(); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// arm registers for the next change. The registration stays pending until
// the event fires, so changes made while Wait is not running are not lost.
func (n *registryNotifier) arm() error {
	err := windows.RegNotifyChangeKeyValue(windows.Handle(n.key), true,
		regLegalChangeFilter|regNotifyThreadAgnostic, n.event, true)
	if err != nil {
		n.armed = false
		return fmt.Errorf("windows.RegNotifyChangeKeyValue: %w", err)
	}
	n.armed = true
	return nil
}

// Wait blocks until the subtree changes, then re-arms before returning.
func (n *registryNotifier) Wait(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.armed {
		if err := n.arm(); err != nil {
			return err
		}
	}

	for {
		s, err := windows.WaitForSingleObject(n.event, waitSlice)
		if err != nil {
			return fmt.Errorf("windows.WaitForSingleObject: %w", err)
		}
		switch s {
		case windows.WAIT_OBJECT_0:
			return n.arm()
		case uint32(windows.WAIT_TIMEOUT): // declared as an Errno, not a wait status
			if err := ctx.Err(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected wait status %#x on %s", s, n.path)
		}
	}
}

// Close releases the key (which cancels the registration) and the event.
func (n *registryNotifier) Close() error {
	err := n.key.Close()
	if cerr := windows.CloseHandle(n.event); err == nil {
		err = cerr
	}
	return err
}
