package timetable

import (
	"testing"
)

func TestParseTimeRange(t *testing.T) {
	start, end, ok := ParseTimeRange("9:00a - 10:30a")
	if !ok {
		t.Fatal("expected the short meridiem form to parse")
	}
	if start != 540 || end != 630 {
		t.Errorf("got %d-%d, want 540-630", start, end)
	}

	start, end, ok = ParseTimeRange("1:00PM - 3:55PM")
	if !ok {
		t.Fatal("expected the full meridiem form to parse")
	}
	if start != 780 || end != 955 {
		t.Errorf("got %d-%d, want 780-955", start, end)
	}

	for _, bad := range []string{"", "9:00a", "9:00a-10:30a", "nine - ten", "9:00a - "} {
		if _, _, ok := ParseTimeRange(bad); ok {
			t.Errorf("ParseTimeRange(%q) should not parse", bad)
		}
	}
}

func TestParseExamTime(t *testing.T) {
	start, end, ok := ParseExamTime("9:00am")
	if !ok {
		t.Fatal("expected exam time to parse")
	}
	if start != 540 {
		t.Errorf("got start %d, want 540", start)
	}
	if end != start+180 {
		t.Errorf("exam end should be three hours after start, got %d", end)
	}

	if _, _, ok := ParseExamTime("9:00"); ok {
		t.Error("exam time without a meridiem should not parse")
	}
	if _, _, ok := ParseExamTime(""); ok {
		t.Error("empty exam time should not parse")
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int32]string{
		0:    "12:00 AM",
		540:  "9:00 AM",
		720:  "12:00 PM",
		785:  "1:05 PM",
		1439: "11:59 PM",
		// a 9pm exam plus three hours spills past midnight
		1500: "1:00 AM",
	}
	for minutes, want := range cases {
		if got := FormatMinutes(minutes); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", minutes, got, want)
		}
	}
}
