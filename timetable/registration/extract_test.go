package registration

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestExtractManual(t *testing.T) {
	extraction := ExtractManual("ACT404, env324\nmth201 act404")

	if !extraction.Codes.Has("ACT404") {
		t.Error("expected ACT404")
	}
	if !extraction.Codes.Has("ENV324") {
		t.Error("expected ENV324")
	}
	if !extraction.Codes.Has("MTH201") {
		t.Error("expected MTH201")
	}
	// "ACT404" and "act404" collapse to one normalized code
	if len(extraction.Codes) != 3 {
		t.Errorf("got %d codes: %v", len(extraction.Codes), extraction.Codes.Sorted())
	}
	// but every raw token is kept for display
	if len(extraction.RawTokens) != 4 {
		t.Errorf("got %d raw tokens: %v", len(extraction.RawTokens), extraction.RawTokens)
	}
}

func TestExtractManualSplitsOnWhitespace(t *testing.T) {
	// a space inside a typed code is a token boundary, the letters and
	// digits come through as two separate fallback tokens
	extraction := ExtractManual("ACT 404")
	if extraction.Codes.Has("ACT404") {
		t.Error("spaced manual input should not join into one code")
	}
	if len(extraction.RawTokens) != 2 {
		t.Errorf("got %v", extraction.RawTokens)
	}
}

func TestExtractManualEmpty(t *testing.T) {
	extraction := ExtractManual("  \n ")
	if len(extraction.Codes) != 0 {
		t.Errorf("got %v", extraction.Codes.Sorted())
	}
	if len(extraction.RawTokens) != 0 {
		t.Errorf("got %v", extraction.RawTokens)
	}
}

func TestExtractManualKeepsUnrecognizedTokens(t *testing.T) {
	extraction := ExtractManual("notacode ACT404")
	// fallback normalization still yields a set member so the visitor
	// sees their typo in the diagnostics instead of it vanishing
	if !extraction.Codes.Has("NOTACODE") {
		t.Errorf("got %v", extraction.Codes.Sorted())
	}
	if !extraction.Codes.Has("ACT404") {
		t.Errorf("got %v", extraction.Codes.Sorted())
	}
}

func TestGroupCells(t *testing.T) {
	row := pdf.TextHorizontal{
		{S: "1", X: 0, W: 5},
		{S: "ACT", X: 40, W: 18},
		{S: " 404", X: 58, W: 20},
		{S: "Accounting", X: 120, W: 50},
	}

	cells := groupCells(row)
	if len(cells) != 3 {
		t.Fatalf("got %d cells: %v", len(cells), cells)
	}
	if cells[1] != "ACT 404" {
		t.Errorf("fragments inside a cell should join, got %q", cells[1])
	}
	if cells[2] != "Accounting" {
		t.Errorf("got %q", cells[2])
	}
}

func TestGroupCellsEmptyRow(t *testing.T) {
	if cells := groupCells(pdf.TextHorizontal{}); len(cells) != 0 {
		t.Errorf("got %v", cells)
	}
}
