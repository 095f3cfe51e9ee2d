package livestatus

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/observability"
	"mediq/internal/query"
	"mediq/internal/types"
)

// Exactly one target system is supported.
const (
	supportedHospital = "高醫"
	queuePageURL      = "https://www.kmuh.org.tw/Web/WebRegistration/OPDSeq/ProcessMain?lang=tw"
)

// Sentinel values for the degraded placeholder record.
const (
	unavailableNumber  = "無法取得即時資料"
	placeholderMessage = "建議直接聯繫醫院或查看醫院官方叫號系統"
)

// Row selectors of the registration page's queue table.
const (
	rowSelector        = ".c_table"
	deptSelector       = ".SeqDept"
	staffSelector      = ".DocName"
	currentSeqSelector = ".CurrentSeq"
)

// Extractor scrapes the live queue status for one query.
type Extractor struct {
	renderer Renderer
	logger   *observability.Logger
	now      func() time.Time
}

// NewExtractor builds an extractor over the given renderer.
func NewExtractor(renderer Renderer, logger *observability.Logger) *Extractor {
	return &Extractor{
		renderer: renderer,
		logger:   observability.OrNop(logger).WithComponent("livestatus"),
		now:      time.Now,
	}
}

// FetchQueueStatus reports the currently served number for the department
// and staff member named by the entities.
//
// A hospital other than the supported one fails fast with a typed
// unsupported error. Every other failure (network, parse, no matching row)
// degrades to the placeholder record with a nil error.
func (e *Extractor) FetchQueueStatus(ctx context.Context, hospital string, ent query.Entities) (types.LiveStatusRecord, error) {
	if hospital != supportedHospital {
		return types.LiveStatusRecord{}, mediqerrors.NewUnsupportedHospitalError(hospital)
	}

	markup, err := e.renderer.Render(ctx, queuePageURL)
	if err != nil {
		e.logger.Warn("page rendering failed, using placeholder", "error", err)
		return e.placeholder(hospital), nil
	}

	row, ok := e.findRow(markup, ent.Department, ent.StaffName)
	if !ok {
		e.logger.Warn("no matching queue row, using placeholder",
			"department", ent.Department, "staff", ent.StaffName)
		return e.placeholder(hospital), nil
	}

	return types.LiveStatusRecord{
		Hospital:      hospital,
		Department:    row.department,
		StaffName:     row.staffName,
		CurrentNumber: row.currentSeq,
		Timestamp:     e.now().UTC().Format(time.RFC3339),
		Success:       true,
		Source:        types.SourceLive,
	}, nil
}

type queueRow struct {
	department string
	staffName  string
	currentSeq string
}

// findRow scans the queue table in document order and returns the first row
// whose normalized department and staff name contain the normalized targets.
// An empty target matches any row.
func (e *Extractor) findRow(markup, department, staffName string) (queueRow, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Warn("markup parse failed", "error", err)
		return queueRow{}, false
	}

	wantDept := normalize(department)
	wantStaff := normalize(staffName)

	var found queueRow
	var ok bool
	doc.Find(rowSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rowDept := normalize(sel.Find(deptSelector).Text())
		rowStaff := normalize(sel.Find(staffSelector).Text())
		currentSeq := normalize(sel.Find(currentSeqSelector).Text())

		if (wantDept == "" || strings.Contains(rowDept, wantDept)) &&
			(wantStaff == "" || strings.Contains(rowStaff, wantStaff)) {
			found = queueRow{department: rowDept, staffName: rowStaff, currentSeq: currentSeq}
			ok = true
			return false
		}
		return true
	})

	return found, ok
}

func (e *Extractor) placeholder(hospital string) types.LiveStatusRecord {
	rec := PlaceholderRecord(hospital)
	rec.Timestamp = e.now().UTC().Format(time.RFC3339)
	return rec
}

// PlaceholderRecord is the degraded live-status result: Success=false with
// the unavailable sentinel, never empty fields. Callers that cannot reach
// the extractor at all use it too, so every failure mode surfaces the same
// record shape.
func PlaceholderRecord(hospital string) types.LiveStatusRecord {
	return types.LiveStatusRecord{
		Hospital:      hospital,
		CurrentNumber: unavailableNumber,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Success:       false,
		Source:        types.SourcePlaceholder,
		Message:       placeholderMessage,
	}
}

// normalize strips full- and half-width whitespace and maps full-width
// digits to half-width so row text and extracted entities compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '　':
			// drop
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
