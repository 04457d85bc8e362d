package store

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/unidl/pkg/domain/model"
)

type memoryEntry struct {
	session []byte
	file    *model.DeliveredFile
	expires time.Time
}

// Memory is a process-local SessionStore. Sessions are kept encoded so callers
// never share state with the store.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

// MemoryOption configures Memory
type MemoryOption func(*Memory)

// WithMemoryClock replaces time.Now for expiry
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an in-memory store expiring entries idle for ttl
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// entry returns the live entry for id, dropping it when expired. mu must be held.
func (m *Memory) entry(id string) *memoryEntry {
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, id)
		return nil
	}
	return e
}

func (m *Memory) GetSession(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(id)
	if e == nil || e.session == nil {
		return nil, nil
	}
	return decodeSession(e.session)
}

func (m *Memory) PutSession(ctx context.Context, sess *model.Session) error {
	raw, err := encodeSession(sess)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(sess.ID)
	if e == nil {
		e = &memoryEntry{}
		m.entries[sess.ID] = e
	}
	e.session = raw
	e.expires = m.now().Add(m.ttl)
	m.sweep()
	return nil
}

func (m *Memory) PutFile(ctx context.Context, sessionID string, file *model.DeliveredFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(sessionID)
	if e == nil {
		e = &memoryEntry{}
		m.entries[sessionID] = e
	}
	e.file = file
	e.expires = m.now().Add(m.ttl)
	return nil
}

func (m *Memory) TakeFile(ctx context.Context, sessionID string) (*model.DeliveredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(sessionID)
	if e == nil || e.file == nil {
		return nil, nil
	}
	file := e.file
	e.file = nil
	return file, nil
}

// sweep drops every expired entry. mu must be held.
func (m *Memory) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
}
