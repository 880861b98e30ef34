// Package views holds the JSON shapes shared by the public and
// generator endpoints, the renderer-facing session keeps both the raw
// minutes and a formatted clock string.
package views

import (
	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/timetable"
)

type Session struct {
	Day            string `json:"day"`
	StartMinutes   int32  `json:"start_minutes"`
	EndMinutes     int32  `json:"end_minutes"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Location       string `json:"location"`
	CourseCode     string `json:"course_code"`
	NormalizedCode string `json:"normalized_code"`
	Details        string `json:"details"`
	Lecturer       string `json:"lecturer"`
}

func NewSession(s db.TimetableSession) Session {
	return Session{
		Day:            s.Day,
		StartMinutes:   s.StartMinutes,
		EndMinutes:     s.EndMinutes,
		StartTime:      timetable.FormatMinutes(s.StartMinutes),
		EndTime:        timetable.FormatMinutes(s.EndMinutes),
		Location:       s.Location,
		CourseCode:     s.CourseCode,
		NormalizedCode: s.NormalizedCode,
		Details:        s.Details,
		Lecturer:       s.Lecturer,
	}
}

func NewSessions(sessions []db.TimetableSession) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSession(s))
	}
	return out
}

// Schedule is the weekday bucketed shape renderers draw from
type Schedule struct {
	Schedule    map[string][]Session `json:"schedule"`
	Unscheduled []Session            `json:"unscheduled"`
}

func NewSchedule(result timetable.MatchResult) Schedule {
	buckets := make(map[string][]Session, len(result.Schedule))
	for day, sessions := range result.Schedule {
		buckets[day] = NewSessions(sessions)
	}
	return Schedule{
		Schedule:    buckets,
		Unscheduled: NewSessions(result.Unscheduled),
	}
}
