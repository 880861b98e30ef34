package timetable

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/amhafiz/timetabler/data/cache"
	"github.com/amhafiz/timetabler/data/db"
)

// only the two reads the store needs, so the resolution order can be
// exercised without a live database
type SourceQuerier interface {
	GetTimetableSource(ctx context.Context, id int64) (db.TimetableSource, error)
	ListSessionsBySource(ctx context.Context, sourceID int64) ([]db.TimetableSession, error)
}

type SourceIngester interface {
	Ingest(ctx context.Context, source db.TimetableSource) bool
}

// ScheduleStore serves a source's session list preferring the cache,
// then persisted rows, then a single ingest-and-reread. It never
// errors to the caller, anything unresolvable is an empty list.
type ScheduleStore struct {
	q        SourceQuerier
	ingestor SourceIngester
	cache    *cache.ScheduleCache
}

func NewScheduleStore(q SourceQuerier, ingestor SourceIngester, c *cache.ScheduleCache) *ScheduleStore {
	return &ScheduleStore{
		q:        q,
		ingestor: ingestor,
		cache:    c,
	}
}

func (s *ScheduleStore) Get(ctx context.Context, sourceID int64) []db.TimetableSession {
	if sessions, ok := s.cache.Get(sourceID); ok {
		return sessions
	}

	source, err := s.q.GetTimetableSource(ctx, sourceID)
	if err != nil {
		log.WithField("source", sourceID).Warn("Could not look up source: ", err)
		return []db.TimetableSession{}
	}

	// one bounded retry instead of recursing after the ingest
	for attempt := 0; attempt < 2; attempt++ {
		if source.EventsParsed {
			sessions, err := s.q.ListSessionsBySource(ctx, sourceID)
			if err != nil {
				log.WithField("source", sourceID).Warn("Could not read sessions: ", err)
			} else if len(sessions) > 0 {
				s.cache.Set(sourceID, sessions)
				return sessions
			}
		}

		if attempt > 0 {
			break
		}
		if !s.ingestor.Ingest(ctx, source) {
			break
		}
		source, err = s.q.GetTimetableSource(ctx, sourceID)
		if err != nil {
			log.WithField("source", sourceID).Warn("Could not re-read source after ingest: ", err)
			break
		}
	}

	return []db.TimetableSession{}
}

// Evict must be called when a source is deleted or its file replaced,
// expiry alone would serve stale schedules for up to a day
func (s *ScheduleStore) Evict(sourceID int64) {
	s.cache.Delete(sourceID)
}
