package db

import "github.com/jackc/pgx/v5/pgtype"

// timetable source processing statuses
const (
	SourceStatusProcessing = "processing"
	SourceStatusCompleted  = "completed"
	SourceStatusFailed     = "failed"
)

// timetable source types
const (
	SourceTypeTeaching = "teaching"
	SourceTypeExam     = "exam"
	SourceTypePersonal = "personal"
	SourceTypeEvent    = "event"
	SourceTypeOther    = "other"
)

// user roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
	RoleOther   = "other"
)

// NullableText treats "" as SQL NULL for the optional text columns
func NullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

type User struct {
	ID                int64              `json:"id"`
	Username          string             `json:"username"`
	EncryptedPassword string             `json:"-"`
	Email             pgtype.Text        `json:"email"`
	Role              string             `json:"role"`
	IsActive          bool               `json:"is_active"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

type TimetableSource struct {
	ID            int64              `json:"id"`
	AcademicYear  string             `json:"academic_year"`
	Semester      string             `json:"semester"`
	DisplayName   string             `json:"display_name"`
	TimetableType string             `json:"timetable_type"`
	Description   pgtype.Text        `json:"description"`
	FilePath      string             `json:"-"`
	UploaderID    pgtype.Int8        `json:"uploader_id"`
	Status        string             `json:"status"`
	EventsParsed  bool               `json:"events_parsed"`
	TotalEvents   int32              `json:"total_events"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

// start and end are minutes since midnight so sessions sort and compare
// without any timezone or date baggage
type TimetableSession struct {
	ID             int64  `json:"id"`
	SourceID       int64  `json:"source_id"`
	Day            string `json:"day"`
	StartMinutes   int32  `json:"start_minutes"`
	EndMinutes     int32  `json:"end_minutes"`
	Location       string `json:"location"`
	CourseCode     string `json:"course_code"`
	NormalizedCode string `json:"normalized_code"`
	Details        string `json:"details"`
	Lecturer       string `json:"lecturer"`
}

// course_codes is the sorted JSON array of normalized codes which also
// serves as part of the uniqueness key for a saved registration
type CourseRegistrationHistory struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	SourceID    int64              `json:"source_id"`
	CourseCodes string             `json:"course_codes"`
	DisplayName string             `json:"display_name"`
	Program     pgtype.Text        `json:"program"`
	Level       pgtype.Text        `json:"level"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	LastUsed    pgtype.Timestamptz `json:"last_used"`
}
