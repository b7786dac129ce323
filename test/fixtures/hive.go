// Package fixtures provides test helpers for unit and integration tests.
package fixtures

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ErrKeyNotFound is returned by MemoryHive.Open for a missing key without AccessCreate.
var ErrKeyNotFound = errors.New("registry key not found")

// Write records one value written through a MemoryHive key.
type Write struct {
	Key   string
	Name  string
	Value interface{}
}

// MemoryHive is an in-memory stand-in for HKEY_CURRENT_USER.
// Key paths are case-insensitive, like the real registry.
type MemoryHive struct {
	mu     sync.Mutex
	keys   map[string]map[string]interface{}
	writes []Write
	// FailWrites makes SetDWord/SetString fail for the given value names.
	FailWrites map[string]error
	// FailReads makes GetBinary/GetDWord/GetString fail for the given value names.
	FailReads map[string]error
}

// NewMemoryHive creates an empty hive.
func NewMemoryHive() *MemoryHive {
	return &MemoryHive{
		keys:       make(map[string]map[string]interface{}),
		FailWrites: make(map[string]error),
		FailReads:  make(map[string]error),
	}
}

func normalize(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}

// CreateKey makes sure the key exists.
func (h *MemoryHive) CreateKey(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.keys[normalize(path)]; !ok {
		h.keys[normalize(path)] = make(map[string]interface{})
	}
}

// Put sets a value directly, creating the key, without recording a write.
func (h *MemoryHive) Put(path, name string, value interface{}) {
	h.CreateKey(path)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[normalize(path)][name] = value
}

// Value returns a stored value and whether it exists.
func (h *MemoryHive) Value(path, name string) (interface{}, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k, ok := h.keys[normalize(path)]
	if !ok {
		return nil, false
	}
	v, ok := k[name]
	return v, ok
}

// HasKey reports whether the key exists.
func (h *MemoryHive) HasKey(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.keys[normalize(path)]
	return ok
}

// Writes returns every write recorded so far.
func (h *MemoryHive) Writes() []Write {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Write(nil), h.writes...)
}

// ResetWrites clears the write log.
func (h *MemoryHive) ResetWrites() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes = nil
}

// Open implements domain.Hive.
func (h *MemoryHive) Open(path string, access domain.Access) (domain.ValueStore, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := normalize(path)
	if _, ok := h.keys[p]; !ok {
		if access != domain.AccessCreate {
			return nil, fmt.Errorf("%s: %w", path, ErrKeyNotFound)
		}
		h.keys[p] = make(map[string]interface{})
	}
	return &memoryKey{hive: h, path: p, access: access}, nil
}

type memoryKey struct {
	hive   *MemoryHive
	path   string
	access domain.Access
	closed bool
}

func (k *memoryKey) get(name string) (interface{}, error) {
	k.hive.mu.Lock()
	defer k.hive.mu.Unlock()
	if k.closed {
		return nil, errors.New("key closed")
	}
	if err := k.hive.FailReads[name]; err != nil {
		return nil, err
	}
	v, ok := k.hive.keys[k.path][name]
	if !ok {
		return nil, domain.ErrValueNotFound
	}
	return v, nil
}

func (k *memoryKey) set(name string, value interface{}) error {
	k.hive.mu.Lock()
	defer k.hive.mu.Unlock()
	if k.closed {
		return errors.New("key closed")
	}
	if k.access == domain.AccessRead {
		return errors.New("access denied")
	}
	if err := k.hive.FailWrites[name]; err != nil {
		return err
	}
	k.hive.keys[k.path][name] = value
	k.hive.writes = append(k.hive.writes, Write{Key: k.path, Name: name, Value: value})
	return nil
}

func (k *memoryKey) GetBinary(name string) ([]byte, error) {
	v, err := k.get(name)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected type %T", name, v)
	}
	return append([]byte(nil), b...), nil
}

func (k *memoryKey) GetDWord(name string) (uint32, error) {
	v, err := k.get(name)
	if err != nil {
		return 0, err
	}
	d, ok := v.(uint32)
	if !ok {
		return 0, fmt.Errorf("%s: unexpected type %T", name, v)
	}
	return d, nil
}

func (k *memoryKey) SetDWord(name string, value uint32) error {
	return k.set(name, value)
}

func (k *memoryKey) GetString(name string) (string, error) {
	v, err := k.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected type %T", name, v)
	}
	return s, nil
}

func (k *memoryKey) SetString(name, value string) error {
	return k.set(name, value)
}

func (k *memoryKey) Delete(name string) error {
	k.hive.mu.Lock()
	defer k.hive.mu.Unlock()
	if k.access == domain.AccessRead {
		return errors.New("access denied")
	}
	if _, ok := k.hive.keys[k.path][name]; !ok {
		return domain.ErrValueNotFound
	}
	delete(k.hive.keys[k.path], name)
	return nil
}

func (k *memoryKey) Close() error {
	k.hive.mu.Lock()
	defer k.hive.mu.Unlock()
	k.closed = true
	return nil
}

// Ensure MemoryHive implements domain.Hive.
var _ domain.Hive = (*MemoryHive)(nil)
