//go:build windows

package infra

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// RegistryHive implements domain.Hive over HKEY_CURRENT_USER.
type RegistryHive struct {
	root registry.Key
}

// NewRegistryHive opens keys under the current user's hive.
func NewRegistryHive() domain.Hive {
	return &RegistryHive{root: registry.CURRENT_USER}
}

// Open opens path with the requested access.
func (h *RegistryHive) Open(path string, access domain.Access) (domain.ValueStore, error) {
	var (
		key registry.Key
		err error
	)
	switch access {
	case domain.AccessRead:
		key, err = registry.OpenKey(h.root, path, registry.QUERY_VALUE|registry.NOTIFY)
	case domain.AccessWrite:
		key, err = registry.OpenKey(h.root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	case domain.AccessCreate:
		key, _, err = registry.CreateKey(h.root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	default:
		return nil, fmt.Errorf("unknown registry access %d", access)
	}
	if err != nil {
		return nil, fmt.Errorf("registry.OpenKey(%s): %w", path, err)
	}
	return &registryKey{key: key}, nil
}

// registryKey adapts registry.Key to domain.ValueStore.
type registryKey struct {
	key registry.Key
}

func translate(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return domain.ErrValueNotFound
	}
	return err
}

func (k *registryKey) GetBinary(name string) ([]byte, error) {
	v, _, err := k.key.GetBinaryValue(name)
	return v, translate(err)
}

func (k *registryKey) GetDWord(name string) (uint32, error) {
	v, _, err := k.key.GetIntegerValue(name)
	if err != nil {
		return 0, translate(err)
	}
	return uint32(v), nil
}

func (k *registryKey) SetDWord(name string, value uint32) error {
	return k.key.SetDWordValue(name, value)
}

func (k *registryKey) GetString(name string) (string, error) {
	v, _, err := k.key.GetStringValue(name)
	return v, translate(err)
}

func (k *registryKey) SetString(name, value string) error {
	return k.key.SetStringValue(name, value)
}

func (k *registryKey) Delete(name string) error {
	return translate(k.key.DeleteValue(name))
}

func (k *registryKey) Close() error {
	return k.key.Close()
}

var (
	_ domain.Hive       = (*RegistryHive)(nil)
	_ domain.ValueStore = (*registryKey)(nil)
)
