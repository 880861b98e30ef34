package servermanage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/data/files"
	logginghelpers "github.com/amhafiz/timetabler/data/logging-helpers"
	"github.com/amhafiz/timetabler/server/auth"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxUploadBytes = 32 << 20

type manageHandler struct {
	dbPool   *pgxpool.Pool
	store    *timetable.ScheduleStore
	ingestor *timetable.Ingestor
	logger   *slog.Logger
	hub      *logHub
}

// sourceReport is what the dashboard shows after an upload or edit
type sourceReport struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Source      db.TimetableSource `json:"source"`
	FileSizeMB  float64            `json:"file_size_mb,omitempty"`
	EventsCount int32              `json:"events_count"`
}

func (h *manageHandler) getTimetables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := db.New(h.dbPool)
	sources, err := q.ListTimetableSources(ctx)
	if err != nil {
		h.logger.Error("Could not list timetable sources", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	resp, err := json.Marshal(sources)
	if err != nil {
		h.logger.Error("Could not marshal timetable sources", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

// postTimetable stores the uploaded master timetable file, creates the
// source row and ingests it right away so the admin sees the outcome
// in the response
func (h *manageHandler) postTimetable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid upload form", http.StatusBadRequest)
		return
	}

	displayName := r.FormValue("display_name")
	academicYear := r.FormValue("academic_year")
	semester := r.FormValue("semester")
	timetableType := r.FormValue("timetable_type")
	description := r.FormValue("description")
	if displayName == "" || academicYear == "" || semester == "" {
		http.Error(w, "display_name, academic_year and semester are required", http.StatusBadRequest)
		return
	}
	if timetableType == "" {
		timetableType = db.SourceTypeTeaching
	}

	file, header, err := r.FormFile("source_json")
	if err != nil {
		http.Error(w, "A timetable JSON file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := files.SaveMasterTimetable(file, header.Filename)
	if err != nil {
		h.logger.Error("Could not store upload", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	user, _ := auth.UserFromContext(ctx)
	q := db.New(h.dbPool)
	source, err := q.CreateTimetableSource(ctx, db.CreateTimetableSourceParams{
		AcademicYear:  academicYear,
		Semester:      semester,
		DisplayName:   displayName,
		TimetableType: timetableType,
		Description:   db.NullableText(description),
		FilePath:      path,
		UploaderID:    pgtype.Int8{Int64: user.ID, Valid: true},
		Status:        db.SourceStatusProcessing,
	})
	if err != nil {
		h.logger.Error("Could not create timetable source", "err", err)
		files.Remove(path)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	ingested := h.ingestor.Ingest(ctx, source)
	h.writeSourceReport(ctx, w, http.StatusCreated, source.ID, ingested, float64(header.Size)/(1024*1024),
		"Master timetable upload successful",
		"Upload processing failed. Please check the JSON format and try again.")
}

// putTimetable edits a source's metadata and, when a new file is
// attached, replaces the stored file and re-ingests from scratch
func (h *manageHandler) putTimetable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceID, err := strconv.ParseInt(chi.URLParam(r, "sourceID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid source id", http.StatusBadRequest)
		return
	}

	q := db.New(h.dbPool)
	source, err := q.GetTimetableSource(ctx, sourceID)
	if err != nil {
		http.Error(w, "Timetable not found.", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid upload form", http.StatusBadRequest)
		return
	}

	err = q.UpdateTimetableSourceMeta(ctx, db.UpdateTimetableSourceMetaParams{
		ID:            source.ID,
		AcademicYear:  formValueOr(r, "academic_year", source.AcademicYear),
		Semester:      formValueOr(r, "semester", source.Semester),
		DisplayName:   formValueOr(r, "display_name", source.DisplayName),
		TimetableType: formValueOr(r, "timetable_type", source.TimetableType),
		Description:   db.NullableText(formValueOr(r, "description", source.Description.String)),
	})
	if err != nil {
		h.logger.Error("Could not update timetable source", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	file, header, err := r.FormFile("source_json")
	if err != nil {
		// metadata only edit, the parsed sessions stand
		h.writeSourceReport(ctx, w, http.StatusOK, source.ID, true, 0,
			"Timetable details updated", "")
		return
	}
	defer file.Close()

	path, err := files.SaveMasterTimetable(file, header.Filename)
	if err != nil {
		h.logger.Error("Could not store replacement upload", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	oldPath := source.FilePath
	if err := q.UpdateTimetableSourceFile(ctx, source.ID, path); err != nil {
		h.logger.Error("Could not swap source file", "source", sourceID, "err", err)
		files.Remove(path)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	files.Remove(oldPath)

	// a replaced file means the old sessions and cache entry are stale
	h.store.Evict(source.ID)
	if err := q.DeleteSessionsBySource(ctx, source.ID); err != nil {
		h.logger.Error("Could not clear sessions for re-ingest", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	if err := q.ResetTimetableSourceParse(ctx, source.ID); err != nil {
		h.logger.Error("Could not reset source flags", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	source, err = q.GetTimetableSource(ctx, source.ID)
	if err != nil {
		h.logger.Error("Could not re-read source", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	ingested := h.ingestor.Ingest(ctx, source)
	h.writeSourceReport(ctx, w, http.StatusOK, source.ID, ingested, float64(header.Size)/(1024*1024),
		"Timetable updated and reprocessed",
		"Reprocessing failed. Please check the JSON format and try again.")
}

func (h *manageHandler) deleteTimetable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceID, err := strconv.ParseInt(chi.URLParam(r, "sourceID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid source id", http.StatusBadRequest)
		return
	}

	q := db.New(h.dbPool)
	source, err := q.GetTimetableSource(ctx, sourceID)
	if err != nil {
		http.Error(w, "Timetable not found.", http.StatusNotFound)
		return
	}

	// evict before the delete so a racing reader rebuilds from the
	// database and sees the source gone
	h.store.Evict(source.ID)
	if err := q.DeleteTimetableSource(ctx, source.ID); err != nil {
		h.logger.Error("Could not delete timetable source", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	files.Remove(source.FilePath)

	resp, _ := json.Marshal(map[string]any{
		"success": true,
		"message": fmt.Sprintf("'%s' has been deleted successfully.", source.DisplayName),
	})
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

func (h *manageHandler) writeSourceReport(
	ctx context.Context,
	w http.ResponseWriter,
	status int,
	sourceID int64,
	ingested bool,
	fileSizeMB float64,
	successMessage string,
	failureMessage string,
) {
	// refetch so the report carries the post-ingest counts and status
	source, err := db.New(h.dbPool).GetTimetableSource(ctx, sourceID)
	if err != nil {
		h.logger.Error("Could not re-read source for report", "source", sourceID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	message := successMessage
	if !ingested {
		message = failureMessage
		h.logger.Log(ctx, logginghelpers.LevelBrokenSource,
			"Source failed ingestion", "source", sourceID, "status", source.Status)
	}
	resp, err := json.Marshal(sourceReport{
		Success:     ingested,
		Message:     message,
		Source:      source,
		FileSizeMB:  fileSizeMB,
		EventsCount: source.TotalEvents,
	})
	if err != nil {
		h.logger.Error("Could not marshal source report", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(resp)
}

func formValueOr(r *http.Request, key string, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}
