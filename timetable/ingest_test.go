package timetable

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/amhafiz/timetabler/data/db"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.ErrorLevel)
	return log.NewEntry(logger)
}

func TestParseTeachingPayload(t *testing.T) {
	source := db.TimetableSource{ID: 7, TimetableType: db.SourceTypeTeaching}
	payload := []byte(`[
		{"Day":"mon","Time":"9:00a - 10:30a","Course":"CS 101 Intro","Venue":"A1","Instructor(s)":"Dr X"}
	]`)

	records, err := ParseMasterPayload(testLogger(), source, payload)
	if err != nil {
		t.Fatal("unexpected parse error: ", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.SourceID != 7 {
		t.Errorf("got source id %d", r.SourceID)
	}
	if r.Day != "Mon" {
		t.Errorf("day should be title cased as given, got %q", r.Day)
	}
	if r.StartMinutes != 540 || r.EndMinutes != 630 {
		t.Errorf("got %d-%d, want 540-630", r.StartMinutes, r.EndMinutes)
	}
	if r.CourseCode != "CS 101" || r.NormalizedCode != "CS101" {
		t.Errorf("got code %q / %q", r.CourseCode, r.NormalizedCode)
	}
	if r.Details != "Intro" {
		t.Errorf("got details %q", r.Details)
	}
	if r.Location != "A1" || r.Lecturer != "Dr X" {
		t.Errorf("got location %q lecturer %q", r.Location, r.Lecturer)
	}
}

func TestParseTeachingPayloadSkipsBadRecords(t *testing.T) {
	source := db.TimetableSource{ID: 1, TimetableType: db.SourceTypeTeaching}
	payload := []byte(`[
		{"Day":"mon","Time":"not a time","Course":"ACT 404","Venue":"A1","Instructor(s)":""},
		{"Day":"tue","Time":"9:00a - 10:30a","Course":"","Venue":"A1","Instructor(s)":""},
		{"Day":"wed","Time":"1:00p - 2:00p","Course":"ENV324","Venue":"B2","Instructor(s)":"Dr Y"}
	]`)

	records, err := ParseMasterPayload(testLogger(), source, payload)
	if err != nil {
		t.Fatal("unexpected parse error: ", err)
	}
	if len(records) != 1 {
		t.Fatalf("bad rows should be skipped not fatal, got %d records", len(records))
	}
	if records[0].NormalizedCode != "ENV324" {
		t.Errorf("got %q", records[0].NormalizedCode)
	}
}

func TestParseExamPayload(t *testing.T) {
	source := db.TimetableSource{ID: 3, TimetableType: db.SourceTypeExam}
	payload := []byte(`{"schedule":[{"days":[{
		"day":"monday",
		"date":"2025-05-12",
		"sessions":[{"time":"9:00am","exams":[{"level":"400","courses":["ACT 404","ENV 324"]}]}]
	}]}]}`)

	records, err := ParseMasterPayload(testLogger(), source, payload)
	if err != nil {
		t.Fatal("unexpected parse error: ", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected a record per course, got %d", len(records))
	}

	r := records[0]
	if r.Day != "Monday" {
		t.Errorf("got day %q", r.Day)
	}
	if r.StartMinutes != 540 || r.EndMinutes != 720 {
		t.Errorf("exam should run three hours, got %d-%d", r.StartMinutes, r.EndMinutes)
	}
	if r.Details != "Level: 400, Date: 2025-05-12" {
		t.Errorf("got details %q", r.Details)
	}
	if r.Location != "" || r.Lecturer != "" {
		t.Errorf("exams carry no venue or lecturer, got %q %q", r.Location, r.Lecturer)
	}
	if records[1].NormalizedCode != "ENV324" {
		t.Errorf("got %q", records[1].NormalizedCode)
	}
}

func TestParseExamPayloadFallsBackToTeachingShape(t *testing.T) {
	// an exam typed source whose file is actually the flat teaching
	// array still parses
	source := db.TimetableSource{ID: 4, TimetableType: db.SourceTypeExam}
	payload := []byte(`[{"Day":"fri","Time":"7:00a - 9:55a","Course":"MTH 201","Venue":"C3","Instructor(s)":"Dr Z"}]`)

	records, err := ParseMasterPayload(testLogger(), source, payload)
	if err != nil {
		t.Fatal("unexpected parse error: ", err)
	}
	if len(records) != 1 || records[0].NormalizedCode != "MTH201" {
		t.Fatalf("got %v", records)
	}
}

func TestParseMasterPayloadRejectsBadJSON(t *testing.T) {
	source := db.TimetableSource{ID: 5, TimetableType: db.SourceTypeTeaching}
	if _, err := ParseMasterPayload(testLogger(), source, []byte("{not json")); err == nil {
		t.Error("expected an error for unparseable payload")
	}
}

type fakeIngestStore struct {
	count        int64
	countErr     error
	replaceErr   error
	replaceCalls int
	replaced     []db.InsertSessionsParams
	statuses     []string
}

func (f *fakeIngestStore) CountSessionsBySource(ctx context.Context, sourceID int64) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeIngestStore) UpdateTimetableSourceStatus(ctx context.Context, id int64, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeIngestStore) ReplaceSessions(ctx context.Context, sourceID int64, records []db.InsertSessionsParams) error {
	f.replaceCalls++
	f.replaced = records
	return f.replaceErr
}

func newTestIngestor(store IngestStore, read func(string) ([]byte, error)) *Ingestor {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return &Ingestor{store: store, readFile: read, logger: logger}
}

func TestIngestIsIdempotent(t *testing.T) {
	store := &fakeIngestStore{count: 3}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		t.Error("an already parsed source must not be re-read")
		return nil, nil
	})
	source := db.TimetableSource{ID: 1, EventsParsed: true}

	if !ing.Ingest(context.Background(), source) {
		t.Fatal("first call should report success")
	}
	if !ing.Ingest(context.Background(), source) {
		t.Fatal("second call should report success")
	}
	if store.replaceCalls != 0 {
		t.Errorf("sessions were replaced %d times, duplicating rows", store.replaceCalls)
	}
	if len(store.statuses) != 0 {
		t.Errorf("status should be untouched, got %v", store.statuses)
	}
}

func TestIngestReparsesWhenSessionsMissing(t *testing.T) {
	// events_parsed without stored rows means something was lost, so
	// the flag alone is not trusted
	store := &fakeIngestStore{count: 0}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		return []byte(`[{"Day":"mon","Time":"9:00a - 10:30a","Course":"ACT404","Venue":"A1","Instructor(s)":""}]`), nil
	})
	source := db.TimetableSource{ID: 1, EventsParsed: true, TimetableType: db.SourceTypeTeaching}

	if !ing.Ingest(context.Background(), source) {
		t.Fatal("expected success")
	}
	if store.replaceCalls != 1 {
		t.Errorf("got %d replaces", store.replaceCalls)
	}
}

func TestIngestMarksFailedOnUnreadableFile(t *testing.T) {
	store := &fakeIngestStore{}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		return nil, errors.New("no such file")
	})
	source := db.TimetableSource{ID: 2, TimetableType: db.SourceTypeTeaching}

	if ing.Ingest(context.Background(), source) {
		t.Fatal("expected failure")
	}
	if len(store.statuses) != 1 || store.statuses[0] != db.SourceStatusFailed {
		t.Errorf("source should be marked failed, got %v", store.statuses)
	}
	if store.replaceCalls != 0 {
		t.Errorf("nothing should be stored, got %d replaces", store.replaceCalls)
	}
}

func TestIngestMarksFailedOnBadPayload(t *testing.T) {
	store := &fakeIngestStore{}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		return []byte("{not json"), nil
	})
	source := db.TimetableSource{ID: 3, TimetableType: db.SourceTypeTeaching}

	if ing.Ingest(context.Background(), source) {
		t.Fatal("expected failure")
	}
	if len(store.statuses) != 1 || store.statuses[0] != db.SourceStatusFailed {
		t.Errorf("source should be marked failed, got %v", store.statuses)
	}
}

func TestIngestMarksFailedWhenStorageFails(t *testing.T) {
	store := &fakeIngestStore{replaceErr: errors.New("db down")}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		return []byte(`[{"Day":"mon","Time":"9:00a - 10:30a","Course":"ACT404","Venue":"A1","Instructor(s)":""}]`), nil
	})
	source := db.TimetableSource{ID: 4, TimetableType: db.SourceTypeTeaching}

	if ing.Ingest(context.Background(), source) {
		t.Fatal("expected failure")
	}
	if len(store.statuses) != 1 || store.statuses[0] != db.SourceStatusFailed {
		t.Errorf("source should be marked failed, got %v", store.statuses)
	}
}

func TestIngestStoresParsedSessions(t *testing.T) {
	store := &fakeIngestStore{}
	ing := newTestIngestor(store, func(path string) ([]byte, error) {
		return []byte(`[{"Day":"mon","Time":"9:00a - 10:30a","Course":"ACT404 Lec 1","Venue":"A1","Instructor(s)":"Dr X"}]`), nil
	})
	source := db.TimetableSource{ID: 5, TimetableType: db.SourceTypeTeaching}

	if !ing.Ingest(context.Background(), source) {
		t.Fatal("expected success")
	}
	if store.replaceCalls != 1 || len(store.replaced) != 1 {
		t.Fatalf("got %d replaces with %d records", store.replaceCalls, len(store.replaced))
	}
	if store.replaced[0].NormalizedCode != "ACT404" {
		t.Errorf("got %q", store.replaced[0].NormalizedCode)
	}
	if len(store.statuses) != 0 {
		t.Errorf("a clean run never touches the status directly, got %v", store.statuses)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"mon":      "Mon",
		"MONDAY":   "Monday",
		"tuesday":  "Tuesday",
		"mid week": "Mid Week",
		"":         "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
