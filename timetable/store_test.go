package timetable

import (
	"context"
	"errors"
	"testing"

	"github.com/amhafiz/timetabler/data/cache"
	"github.com/amhafiz/timetabler/data/db"
)

type fakeQuerier struct {
	source       db.TimetableSource
	sourceErr    error
	sessions     []db.TimetableSession
	sessionCalls int
}

func (f *fakeQuerier) GetTimetableSource(ctx context.Context, id int64) (db.TimetableSource, error) {
	return f.source, f.sourceErr
}

func (f *fakeQuerier) ListSessionsBySource(ctx context.Context, sourceID int64) ([]db.TimetableSession, error) {
	f.sessionCalls++
	return f.sessions, nil
}

type fakeIngester struct {
	calls   int
	succeed bool
	// what the ingest run leaves behind
	after func()
}

func (f *fakeIngester) Ingest(ctx context.Context, source db.TimetableSource) bool {
	f.calls++
	if f.after != nil {
		f.after()
	}
	return f.succeed
}

func TestStoreServesPersistedRows(t *testing.T) {
	q := &fakeQuerier{
		source:   db.TimetableSource{ID: 1, EventsParsed: true},
		sessions: []db.TimetableSession{{ID: 10, SourceID: 1}},
	}
	ing := &fakeIngester{}
	store := NewScheduleStore(q, ing, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	sessions := store.Get(context.Background(), 1)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	if ing.calls != 0 {
		t.Error("a parsed source should not be re-ingested")
	}
}

func TestStoreCachesAfterFirstRead(t *testing.T) {
	q := &fakeQuerier{
		source:   db.TimetableSource{ID: 1, EventsParsed: true},
		sessions: []db.TimetableSession{{ID: 10, SourceID: 1}},
	}
	store := NewScheduleStore(q, &fakeIngester{}, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	store.Get(context.Background(), 1)
	store.Get(context.Background(), 1)
	if q.sessionCalls != 1 {
		t.Errorf("second read should come from cache, hit the db %d times", q.sessionCalls)
	}
}

func TestStoreIngestsUnparsedSourceOnce(t *testing.T) {
	q := &fakeQuerier{
		source: db.TimetableSource{ID: 1, EventsParsed: false},
	}
	ing := &fakeIngester{succeed: true}
	// the ingest run parses the file and stores rows
	ing.after = func() {
		q.source.EventsParsed = true
		q.sessions = []db.TimetableSession{{ID: 20, SourceID: 1}}
	}
	store := NewScheduleStore(q, ing, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	sessions := store.Get(context.Background(), 1)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions after ingest", len(sessions))
	}
	if ing.calls != 1 {
		t.Errorf("expected exactly one ingest, got %d", ing.calls)
	}
}

func TestStoreGivesEmptyListWhenIngestFails(t *testing.T) {
	q := &fakeQuerier{
		source: db.TimetableSource{ID: 1, EventsParsed: false},
	}
	ing := &fakeIngester{succeed: false}
	store := NewScheduleStore(q, ing, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	sessions := store.Get(context.Background(), 1)
	if sessions == nil {
		t.Fatal("should be an empty list, not nil")
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions", len(sessions))
	}
	if ing.calls != 1 {
		t.Errorf("a failed ingest must not retry, got %d calls", ing.calls)
	}
}

func TestStoreGivesEmptyListForUnknownSource(t *testing.T) {
	q := &fakeQuerier{sourceErr: errors.New("no rows")}
	store := NewScheduleStore(q, &fakeIngester{}, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	sessions := store.Get(context.Background(), 99)
	if sessions == nil || len(sessions) != 0 {
		t.Fatalf("got %v", sessions)
	}
}

func TestStoreEvict(t *testing.T) {
	q := &fakeQuerier{
		source:   db.TimetableSource{ID: 1, EventsParsed: true},
		sessions: []db.TimetableSession{{ID: 10, SourceID: 1}},
	}
	store := NewScheduleStore(q, &fakeIngester{}, cache.NewScheduleCache(cache.DefaultScheduleTTL))

	store.Get(context.Background(), 1)
	store.Evict(1)
	store.Get(context.Background(), 1)
	if q.sessionCalls != 2 {
		t.Errorf("eviction should force a re-read, hit the db %d times", q.sessionCalls)
	}
}
