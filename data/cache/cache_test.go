package cache

import (
	"testing"
	"time"

	"github.com/amhafiz/timetabler/data/db"
)

func TestCacheSetGet(t *testing.T) {
	c := NewScheduleCache(DefaultScheduleTTL)

	if _, ok := c.Get(1); ok {
		t.Error("empty cache should miss")
	}

	c.Set(1, []db.TimetableSession{{ID: 5, SourceID: 1}})
	sessions, ok := c.Get(1)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(sessions) != 1 || sessions[0].ID != 5 {
		t.Errorf("got %v", sessions)
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewScheduleCache(DefaultScheduleTTL)
	c.Set(1, []db.TimetableSession{{ID: 5}})
	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Error("deleted entry should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewScheduleCache(10 * time.Millisecond)
	c.Set(1, []db.TimetableSession{{ID: 5}})
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(1); ok {
		t.Error("expired entry should miss")
	}
}

func TestCacheKeysAreIndependent(t *testing.T) {
	c := NewScheduleCache(DefaultScheduleTTL)
	c.Set(1, []db.TimetableSession{{ID: 1}})
	c.Set(2, []db.TimetableSession{{ID: 2}})
	c.Delete(1)
	if _, ok := c.Get(2); !ok {
		t.Error("deleting one source must not evict another")
	}
}
