package timetable

import (
	"sort"

	"github.com/amhafiz/timetabler/data/db"
)

// the bucketed week downstream renderers draw
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type MatchResult struct {
	// weekday -> sessions sorted by start time, every weekday key is
	// always present even when empty
	Schedule map[string][]db.TimetableSession `json:"schedule"`
	// matched sessions whose day string is not one of Monday-Friday,
	// kept visible instead of silently dropped
	Unscheduled []db.TimetableSession `json:"unscheduled"`
}

// Match intersects a session list with a set of normalized codes and
// buckets the hits by weekday. Pure and deterministic: identical inputs
// always give identical output, which history saving and renderers
// rely on.
func Match(sessions []db.TimetableSession, codes CodeSet) MatchResult {
	result := MatchResult{
		Schedule:    map[string][]db.TimetableSession{},
		Unscheduled: []db.TimetableSession{},
	}
	for _, day := range Weekdays {
		result.Schedule[day] = []db.TimetableSession{}
	}

	for _, session := range sessions {
		if !codes.Has(session.NormalizedCode) {
			continue
		}
		if _, ok := result.Schedule[session.Day]; ok {
			result.Schedule[session.Day] = append(result.Schedule[session.Day], session)
		} else {
			result.Unscheduled = append(result.Unscheduled, session)
		}
	}

	for _, day := range Weekdays {
		bucket := result.Schedule[day]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].StartMinutes < bucket[j].StartMinutes
		})
	}

	return result
}
