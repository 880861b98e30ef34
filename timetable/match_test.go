package timetable

import (
	"testing"

	"github.com/amhafiz/timetabler/data/db"
)

func TestMatch(t *testing.T) {
	sessions := []db.TimetableSession{
		{ID: 1, Day: "Monday", StartMinutes: 780, NormalizedCode: "ACT404"},
		{ID: 2, Day: "Monday", StartMinutes: 540, NormalizedCode: "ACT404"},
		{ID: 3, Day: "Tuesday", StartMinutes: 600, NormalizedCode: "ENV324"},
		{ID: 4, Day: "Monday", StartMinutes: 600, NormalizedCode: "MTH201"},
	}
	codes := NewCodeSet("ACT404", "ENV324")

	result := Match(sessions, codes)

	monday := result.Schedule["Monday"]
	if len(monday) != 2 {
		t.Fatalf("expected 2 monday sessions, got %d", len(monday))
	}
	if monday[0].ID != 2 || monday[1].ID != 1 {
		t.Errorf("monday sessions should sort by start time, got %d then %d", monday[0].ID, monday[1].ID)
	}

	if len(result.Schedule["Tuesday"]) != 1 {
		t.Errorf("expected 1 tuesday session")
	}
	if len(result.Unscheduled) != 0 {
		t.Errorf("expected nothing unscheduled, got %d", len(result.Unscheduled))
	}
}

func TestMatchAlwaysHasEveryWeekday(t *testing.T) {
	result := Match(nil, NewCodeSet("ACT404"))
	for _, day := range Weekdays {
		bucket, ok := result.Schedule[day]
		if !ok {
			t.Errorf("missing bucket for %s", day)
		}
		if bucket == nil {
			t.Errorf("bucket for %s should be an empty list not nil", day)
		}
	}
	if len(result.Schedule) != len(Weekdays) {
		t.Errorf("got %d buckets", len(result.Schedule))
	}
}

func TestMatchBucketsMalformedDays(t *testing.T) {
	sessions := []db.TimetableSession{
		{ID: 1, Day: "Mon", StartMinutes: 540, NormalizedCode: "ACT404"},
		{ID: 2, Day: "Saturday", StartMinutes: 540, NormalizedCode: "ACT404"},
		{ID: 3, Day: "Monday", StartMinutes: 540, NormalizedCode: "ACT404"},
	}
	result := Match(sessions, NewCodeSet("ACT404"))

	// "Mon" and "Saturday" are not weekday bucket keys
	if len(result.Unscheduled) != 2 {
		t.Errorf("expected 2 unscheduled sessions, got %d", len(result.Unscheduled))
	}
	if len(result.Schedule["Monday"]) != 1 {
		t.Errorf("expected 1 monday session")
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	sessions := []db.TimetableSession{
		{ID: 1, Day: "Friday", StartMinutes: 540, NormalizedCode: "ACT404"},
		{ID: 2, Day: "Friday", StartMinutes: 540, NormalizedCode: "ACT404"},
	}
	codes := NewCodeSet("ACT404")

	first := Match(sessions, codes)
	second := Match(sessions, codes)

	// ties keep input order on every run
	for i := range first.Schedule["Friday"] {
		if first.Schedule["Friday"][i].ID != second.Schedule["Friday"][i].ID {
			t.Fatal("identical inputs gave different orderings")
		}
	}
}
