package ingest

import (
	"fmt"
	"strings"
	"time"
)

// orderDateLayouts are tried in order; the first match wins.
var orderDateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
}

// ParseOrderDate keeps only the calendar date as written in the export and
// pins it to refHour:00 in loc, so the stored date never drifts a day when
// displayed in another zone.
func ParseOrderDate(raw string, loc *time.Location, refHour int) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range orderDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, refHour, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
