package cache

import (
	"sync"
	"time"

	"github.com/amhafiz/timetabler/data/db"
)

const DefaultScheduleTTL = 24 * time.Hour

type entry struct {
	sessions   []db.TimetableSession
	expireTime time.Time
}

// ScheduleCache is the process wide source id -> session list store.
// It is only ever a rebuildable view of the database so concurrent
// writers racing on the same key is fine, they all compute the same value.
type ScheduleCache struct {
	entries map[int64]entry
	ttl     time.Duration
	mu      sync.RWMutex
}

func NewScheduleCache(ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{
		entries: map[int64]entry{},
		ttl:     ttl,
	}
}

func (c *ScheduleCache) Get(sourceID int64) ([]db.TimetableSession, bool) {
	c.sweep()
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sourceID]
	if !ok {
		return nil, false
	}
	return e.sessions, true
}

func (c *ScheduleCache) Set(sourceID int64, sessions []db.TimetableSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sourceID] = entry{
		sessions:   sessions,
		expireTime: time.Now().Add(c.ttl),
	}
}

// Delete is the explicit eviction callers run when a source is deleted
// or its file replaced
func (c *ScheduleCache) Delete(sourceID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sourceID)
}

// could also sweep on a goroutine but this should be fine
// bc of the small number of sources being served
func (c *ScheduleCache) sweep() {
	currentTime := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for sourceID, e := range c.entries {
		if currentTime.After(e.expireTime) {
			delete(c.entries, sourceID)
		}
	}
}
