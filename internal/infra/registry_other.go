//go:build !windows

package infra

import (
	"errors"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ErrUnsupportedPlatform is returned by the registry adapters outside Windows.
var ErrUnsupportedPlatform = errors.New("auto_dark_mode requires Windows")

type unsupportedHive struct{}

// NewRegistryHive returns a hive that fails every Open on this platform.
func NewRegistryHive() domain.Hive {
	return unsupportedHive{}
}

func (unsupportedHive) Open(string, domain.Access) (domain.ValueStore, error) {
	return nil, ErrUnsupportedPlatform
}

// NewRegistryNotifier is only available on Windows.
func NewRegistryNotifier(string) (Notifier, error) {
	return nil, ErrUnsupportedPlatform
}
