package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/data/files"
	"github.com/jackc/pgx/v5/pgxpool"
)

// teaching format: a flat array of per session objects
type teachingItem struct {
	Day        string `json:"Day"`
	Time       string `json:"Time"`
	Course     string `json:"Course"`
	Venue      string `json:"Venue"`
	Instructor string `json:"Instructor(s)"`
}

// exam format: schedule[] -> days[] -> sessions[] -> exams[] -> courses[]
type examSchedule struct {
	Schedule []examWeek `json:"schedule"`
}

type examWeek struct {
	Days []examDay `json:"days"`
}

type examDay struct {
	Day      string        `json:"day"`
	Date     string        `json:"date"`
	Sessions []examSession `json:"sessions"`
}

type examSession struct {
	Time  string      `json:"time"`
	Exams []examEntry `json:"exams"`
}

type examEntry struct {
	Level   string   `json:"level"`
	Courses []string `json:"courses"`
}

// IngestStore is the persistence surface Ingest drives, narrowed so
// the no-op and failure branches can be exercised without a live
// database
type IngestStore interface {
	CountSessionsBySource(ctx context.Context, sourceID int64) (int64, error)
	UpdateTimetableSourceStatus(ctx context.Context, id int64, status string) error
	ReplaceSessions(ctx context.Context, sourceID int64, records []db.InsertSessionsParams) error
}

// Ingestor turns a source's raw JSON file into persisted session rows,
// replacing the whole set inside one transaction so readers never see
// a partially swapped schedule.
type Ingestor struct {
	store    IngestStore
	readFile func(path string) ([]byte, error)
	logger   *log.Logger
}

func NewIngestor(pool *pgxpool.Pool) *Ingestor {
	return NewIngestorWithLogger(pool, log.StandardLogger())
}

// NewIngestorWithLogger is for callers that stream ingest logs
// somewhere extra, e.g. the management websocket
func NewIngestorWithLogger(pool *pgxpool.Pool, logger *log.Logger) *Ingestor {
	return &Ingestor{
		store:    &pgxIngestStore{pool: pool},
		readFile: files.ReadMasterTimetable,
		logger:   logger,
	}
}

func (ing *Ingestor) sourceLogger(source db.TimetableSource) *log.Entry {
	return ing.logger.WithFields(log.Fields{
		"source": source.ID,
		"type":   source.TimetableType,
		"name":   source.DisplayName,
	})
}

// Ingest parses and stores the master timetable for a source. A source
// that already has its events parsed and stored is a no-op success,
// callers wanting a refresh clear the sessions and flags first. Any
// failure marks the source failed and reports false, never an error up.
func (ing *Ingestor) Ingest(ctx context.Context, source db.TimetableSource) bool {
	logger := ing.sourceLogger(source)

	if source.EventsParsed {
		count, err := ing.store.CountSessionsBySource(ctx, source.ID)
		if err == nil && count > 0 {
			logger.Info("Source already parsed, skipping")
			return true
		}
	}

	payload, err := ing.readFile(source.FilePath)
	if err != nil {
		logger.Error("Could not read source file: ", err)
		ing.markFailed(ctx, source.ID)
		return false
	}

	records, err := ParseMasterPayload(logger, source, payload)
	if err != nil {
		logger.Error("Could not parse source payload: ", err)
		ing.markFailed(ctx, source.ID)
		return false
	}

	if err := ing.store.ReplaceSessions(ctx, source.ID, records); err != nil {
		logger.Error("Could not store sessions: ", err)
		ing.markFailed(ctx, source.ID)
		return false
	}

	logger.Infof("Successfully parsed and stored %d sessions", len(records))
	return true
}

func (ing *Ingestor) markFailed(ctx context.Context, sourceID int64) {
	if err := ing.store.UpdateTimetableSourceStatus(ctx, sourceID, db.SourceStatusFailed); err != nil {
		ing.logger.WithField("source", sourceID).Error("Could not mark source failed: ", err)
	}
}

// pgxIngestStore backs the ingestor with the live pool
type pgxIngestStore struct {
	pool *pgxpool.Pool
}

func (s *pgxIngestStore) CountSessionsBySource(ctx context.Context, sourceID int64) (int64, error) {
	return db.New(s.pool).CountSessionsBySource(ctx, sourceID)
}

func (s *pgxIngestStore) UpdateTimetableSourceStatus(ctx context.Context, id int64, status string) error {
	return db.New(s.pool).UpdateTimetableSourceStatus(ctx, id, status)
}

// the delete and recreate of a source's sessions happens in a single
// transaction together with the status flags
func (s *pgxIngestStore) ReplaceSessions(
	ctx context.Context,
	sourceID int64,
	records []db.InsertSessionsParams,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin session replace: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := db.New(s.pool).WithTx(tx)
	if err := qtx.DeleteSessionsBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("could not clear old sessions: %w", err)
	}

	if len(records) != 0 {
		var outerErr error = nil
		br := qtx.InsertSessions(ctx, records)
		br.Exec(func(i int, err error) {
			if err != nil {
				outerErr = err
			}
		})
		if outerErr != nil {
			return fmt.Errorf("could not insert sessions: %w", outerErr)
		}
	}

	if err := qtx.MarkTimetableSourceParsed(ctx, sourceID, int32(len(records))); err != nil {
		return fmt.Errorf("could not mark source parsed: %w", err)
	}

	return tx.Commit(ctx)
}

// ParseMasterPayload dispatches on the source's declared type and the
// JSON shape: exam sources whose top level is an object with a
// "schedule" array use the exam parser, everything else is read as the
// flat teaching array.
func ParseMasterPayload(
	logger *log.Entry,
	source db.TimetableSource,
	payload []byte,
) ([]db.InsertSessionsParams, error) {
	if source.TimetableType == db.SourceTypeExam {
		var shape map[string]json.RawMessage
		if err := json.Unmarshal(payload, &shape); err == nil {
			if _, ok := shape["schedule"]; ok {
				var exam examSchedule
				if err := json.Unmarshal(payload, &exam); err != nil {
					return nil, fmt.Errorf("bad exam timetable json: %w", err)
				}
				return parseExamTimetable(source.ID, exam), nil
			}
		}
	}

	var items []teachingItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("bad teaching timetable json: %w", err)
	}
	return parseTeachingTimetable(logger, source.ID, items), nil
}

// malformed records are skipped, not fatal, so one bad row cannot sink
// a whole upload
func parseTeachingTimetable(
	logger *log.Entry,
	sourceID int64,
	items []teachingItem,
) []db.InsertSessionsParams {
	var records []db.InsertSessionsParams
	for i, item := range items {
		start, end, ok := ParseTimeRange(item.Time)
		if !ok {
			logger.Warnf("Skipping item %d: bad time range %q", i, item.Time)
			continue
		}
		display, normalized, details := ParseCourseString(item.Course)
		if display == "" {
			logger.Warnf("Skipping item %d: no course code", i)
			continue
		}

		records = append(records, db.InsertSessionsParams{
			SourceID:       sourceID,
			Day:            titleCase(item.Day),
			StartMinutes:   start,
			EndMinutes:     end,
			Location:       item.Venue,
			CourseCode:     display,
			NormalizedCode: normalized,
			Details:        details,
			Lecturer:       item.Instructor,
		})
	}
	return records
}

func parseExamTimetable(sourceID int64, exam examSchedule) []db.InsertSessionsParams {
	var records []db.InsertSessionsParams
	for _, week := range exam.Schedule {
		for _, day := range week.Days {
			dayName := titleCase(day.Day)
			for _, session := range day.Sessions {
				start, end, ok := ParseExamTime(session.Time)
				if !ok {
					continue
				}
				for _, entry := range session.Exams {
					for _, course := range entry.Courses {
						course = strings.TrimSpace(course)
						if course == "" {
							continue
						}
						records = append(records, db.InsertSessionsParams{
							SourceID:       sourceID,
							Day:            dayName,
							StartMinutes:   start,
							EndMinutes:     end,
							Location:       "",
							CourseCode:     course,
							NormalizedCode: NormalizeCode(course),
							Details:        fmt.Sprintf("Level: %s, Date: %s", entry.Level, day.Date),
							Lecturer:       "",
						})
					}
				}
			}
		}
	}
	return records
}

// title cases each space separated word the way the source data is
// keyed, "mon" -> "Mon" not "Monday"
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
