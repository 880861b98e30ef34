// Package registration pulls candidate course codes out of what a
// student hands us: either typed free text or an uploaded course
// registration PDF.
package registration

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/amhafiz/timetabler/timetable"
	"github.com/ledongthuc/pdf"
)

var (
	// manual entry is split on any run of commas, whitespace or newlines
	manualSplitPattern = regexp.MustCompile(`[,\n\r\s]+`)

	// unlike the normalizer this scan wants every occurrence on a page,
	// not just the first
	codeScanPattern = regexp.MustCompile(`([A-Z]{2,4}) ?([0-9]{3})`)
)

// Extraction carries both the normalized set used for matching and the
// raw tokens found, the raw ones are shown back for diagnostics
type Extraction struct {
	Codes     timetable.CodeSet
	RawTokens []string
}

func newExtraction() *Extraction {
	return &Extraction{Codes: timetable.CodeSet{}}
}

func (e *Extraction) add(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	e.RawTokens = append(e.RawTokens, raw)
	e.Codes.Add(timetable.NormalizeCode(raw))
}

// ExtractManual handles typed input like "ACT 404, env324 mth 201"
func ExtractManual(text string) *Extraction {
	extraction := newExtraction()
	for _, token := range manualSplitPattern.Split(strings.TrimSpace(text), -1) {
		extraction.add(token)
	}
	return extraction
}

// ExtractDocument walks every page of a registration PDF. Each page
// gets two independent passes whose candidates are unioned: the second
// cell of every row after the header, and a regex scan over the page's
// plain text for codes table extraction missed. A bad page or row only
// costs its own candidates, the only failure is a document that cannot
// be opened at all.
func ExtractDocument(r io.ReaderAt, size int64) (*Extraction, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("could not open registration document: %w", err)
	}

	extraction := newExtraction()
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		extractPage(reader.Page(pageNum), pageNum, extraction)
	}
	return extraction, nil
}

func extractPage(page pdf.Page, pageNum int, extraction *Extraction) {
	// the pdf library panics on some malformed content streams and a
	// bad page must not fail the whole document
	defer func() {
		if r := recover(); r != nil {
			log.WithField("page", pageNum).Warn("Skipping unreadable page: ", r)
		}
	}()

	if page.V.IsNull() {
		return
	}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 1 {
		// first row is the table header
		for _, row := range rows[1:] {
			cells := groupCells(row.Content)
			if len(cells) > 1 {
				extraction.add(cells[1])
			}
		}
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return
	}
	for _, match := range codeScanPattern.FindAllStringSubmatch(strings.ToUpper(text), -1) {
		extraction.add(match[1] + " " + match[2])
	}
}

// column gaps in registration tables are comfortably wider than the
// spacing inside a word
const cellGap = 12.0

// groupCells joins a row's text fragments into cell strings, starting
// a new cell whenever the horizontal gap jumps
func groupCells(content pdf.TextHorizontal) []string {
	var cells []string
	var current strings.Builder
	lastEnd := 0.0

	for i, t := range content {
		if i > 0 && t.X-lastEnd > cellGap {
			cells = append(cells, current.String())
			current.Reset()
		}
		current.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	if current.Len() > 0 {
		cells = append(cells, current.String())
	}
	return cells
}
