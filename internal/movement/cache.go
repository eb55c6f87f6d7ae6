package movement

import (
	"sort"
	"sync"
	"time"
)

// DefaultMovementTypeID is used when an evento has no tipomovimento relationship.
const DefaultMovementTypeID = "1"

// CachedEvent is the AlterData evento a verba code maps to.
type CachedEvent struct {
	Code            string    `json:"code"`
	EventoID        string    `json:"eventoId"`
	TipoMovimentoID string    `json:"tipomovimentoId"`
	Nome            string    `json:"nome"`
	CachedAt        time.Time `json:"cachedAt"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
}

// EventCache maps verba codes to eventos. It is shared by all requests; entries expire after
// the TTL (a non-positive TTL keeps them until invalidated).
type EventCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]CachedEvent
}

func NewEventCache(ttl time.Duration) *EventCache {
	return &EventCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]CachedEvent),
	}
}

// WithClock replaces the time source.
func (c *EventCache) WithClock(now func() time.Time) *EventCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

func (c *EventCache) expired(e CachedEvent, at time.Time) bool {
	return !e.ExpiresAt.IsZero() && !at.Before(e.ExpiresAt)
}

// Get returns a fresh entry only.
func (c *EventCache) Get(code string) (CachedEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[code]
	if !ok || c.expired(e, c.now()) {
		return CachedEvent{}, false
	}
	return e, true
}

func (c *EventCache) Put(e CachedEvent) CachedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e.CachedAt = now
	e.ExpiresAt = time.Time{}
	if c.ttl > 0 {
		e.ExpiresAt = now.Add(c.ttl)
	}
	c.entries[e.Code] = e
	return e
}

func (c *EventCache) Invalidate(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[code]
	delete(c.entries, code)
	return ok
}

// Clear drops every entry and returns how many there were.
func (c *EventCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]CachedEvent)
	return n
}

// Sweep removes expired entries and returns how many were removed.
func (c *EventCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for code, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, code)
			removed++
		}
	}
	return removed
}

func (c *EventCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries lists the fresh entries sorted by code.
func (c *EventCache) Entries() []CachedEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make([]CachedEvent, 0, len(c.entries))
	for _, e := range c.entries {
		if !c.expired(e, now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
