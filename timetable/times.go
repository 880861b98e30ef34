package timetable

import (
	"fmt"
	"strings"
	"time"
)

// exam sessions have no end time in the source data, they are assumed
// to run for a fixed three hours
const examDurationMinutes = 180

// ParseTimeRange parses a teaching range like "7:00a - 9:55a" or
// "7:00AM - 9:55AM" into minutes since midnight. The single letter
// suffixes are expanded to AM/PM first. Malformed input never errors,
// it reports ok=false and the caller skips the record.
func ParseTimeRange(timeStr string) (start int32, end int32, ok bool) {
	parts := strings.Split(timeStr, " - ")
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// ParseExamTime parses a single exam start like "9:00am" and derives
// the end as start plus the fixed duration. Input without am/pm in it
// reports ok=false.
func ParseExamTime(timeStr string) (start int32, end int32, ok bool) {
	clean := strings.ToLower(strings.TrimSpace(timeStr))
	if !strings.Contains(clean, "am") && !strings.Contains(clean, "pm") {
		return 0, 0, false
	}

	start, ok = parseClock(clean)
	if !ok {
		return 0, 0, false
	}
	return start, start + examDurationMinutes, true
}

func parseClock(s string) (int32, bool) {
	clean := strings.ToUpper(strings.TrimSpace(s))
	// expand "7:00A" / "7:00P" to a full meridiem
	if strings.HasSuffix(clean, "A") || strings.HasSuffix(clean, "P") {
		clean += "M"
	}

	t, err := time.Parse("3:04PM", clean)
	if err != nil {
		return 0, false
	}
	return int32(t.Hour()*60 + t.Minute()), true
}

// FormatMinutes renders minutes since midnight as a 12 hour clock
// string for responses, e.g. 540 -> "9:00 AM"
func FormatMinutes(minutes int32) string {
	// exam end times may spill past midnight on paper
	minutes = ((minutes % 1440) + 1440) % 1440
	hour := minutes / 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minutes%60, meridiem)
}
