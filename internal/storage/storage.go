// Package storage provides the key-value record capability the history and
// settings stores persist through. Each store owns a single named record
// holding a JSON document; the SQLite adapter is the production backend and
// Memory is the test fake.
package storage

import "sync"

// KV is a minimal get/set capability over named records.
type KV interface {
	// Get returns the record value and whether the record exists.
	Get(key string) (string, bool, error)

	// Set replaces the record value wholesale.
	Set(key, value string) error

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(key string) error
}

// Memory is an in-memory KV for tests. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records map[string]string

	// FailWrites makes Set and Delete return ErrWriteFailed, simulating a
	// full or broken backing store.
	FailWrites bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

// errWriteFailed is returned by Memory when FailWrites is set.
type errWriteFailed struct{}

func (errWriteFailed) Error() string { return "storage: write failed" }

// ErrWriteFailed is the error Memory returns for simulated write failures.
var ErrWriteFailed error = errWriteFailed{}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	m.records[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	delete(m.records, key)
	return nil
}
