package timetable

import (
	"regexp"
	"sort"
	"strings"
)

// course codes look like "ACT 404", "ENV324" or "CS 101" possibly
// buried in a longer string like "ACT404 Lec 1"
var courseCodePattern = regexp.MustCompile(`([A-Z]{2,4}) ?([0-9]{3})`)

// NormalizeCode canonicalizes arbitrary course code text into the key
// used for equality matching: letters immediately followed by digits,
// no space. Blank input gives "". Text without a recognizable code
// degrades to the uppercased input with all spaces stripped so tests
// and diagnostics still get a stable value.
//
// The normalized form is never shown to users, display codes keep
// their single space.
func NormalizeCode(raw string) string {
	clean := strings.ToUpper(strings.TrimSpace(raw))
	if clean == "" {
		return ""
	}

	if m := courseCodePattern.FindStringSubmatch(clean); m != nil {
		return m[1] + m[2]
	}

	return strings.ReplaceAll(clean, " ", "")
}

// ParseCourseString pulls a course code out of a larger course string
// and splits off whatever trails it as details, e.g. "ACT404 Lec 1"
// -> ("ACT 404", "ACT404", "Lec 1"). Only the first match counts.
// When no code is found the raw string becomes the display code with
// the space stripped fallback as its key and no details.
func ParseCourseString(courseStr string) (display string, normalized string, details string) {
	upper := strings.ToUpper(courseStr)
	loc := courseCodePattern.FindStringSubmatchIndex(upper)
	if loc == nil {
		return courseStr, NormalizeCode(courseStr), ""
	}

	letters := upper[loc[2]:loc[3]]
	digits := upper[loc[4]:loc[5]]
	display = letters + " " + digits
	normalized = letters + digits
	details = strings.TrimSpace(courseStr[loc[1]:])
	return display, normalized, details
}

// CodeSet is a set of normalized course codes
type CodeSet map[string]struct{}

func NewCodeSet(codes ...string) CodeSet {
	s := CodeSet{}
	for _, code := range codes {
		s.Add(code)
	}
	return s
}

func (s CodeSet) Add(code string) {
	if code != "" {
		s[code] = struct{}{}
	}
}

func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Sorted gives a deterministic ordering for persistence and display
func (s CodeSet) Sorted() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
