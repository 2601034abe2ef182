// Package admin builds the registrations table and its exports.
package admin

import (
	"time"

	"regdesk/internal/registration/models"
	id "regdesk/pkg/domain"
)

// Notices shown by admin actions.
const (
	MsgEmpty         = "No registrations yet."
	MsgNothingExport = "No records to export."
	MsgNothingClear  = "No records to clear."
	MsgCleared       = "All records cleared."
)

// Fixed columns around the scheme's own.
const (
	LabelID           = "Registration ID"
	LabelRegisteredAt = "Registered At"
)

// Row is one table line.
type Row struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	Cells          []string          `json:"cells"`
	RegisteredAt   string            `json:"registeredAt"`
}

// Table is the admin view of a scheme's records.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
	Total   int      `json:"total"`
	Today   int      `json:"today"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Headers returns the full header line: ID, the scheme's labels, timestamp.
func Headers(columns []models.Column) []string {
	headers := make([]string, 0, len(columns)+2)
	headers = append(headers, LabelID)
	for _, c := range columns {
		headers = append(headers, c.Label)
	}
	return append(headers, LabelRegisteredAt)
}

// BuildTable renders records in stored order. Today counts records whose
// registration falls on now's calendar day in loc.
func BuildTable(records []models.Record, columns []models.Column, now time.Time, loc *time.Location) Table {
	if loc == nil {
		loc = time.Local
	}
	t := Table{
		Headers: Headers(columns),
		Rows:    make([]Row, 0, len(records)),
		Total:   len(records),
	}
	for _, r := range records {
		if !r.RegisteredAt.IsZero() && SameDay(r.RegisteredAt, now, loc) {
			t.Today++
		}
		cells := make([]string, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, c.Display(r))
		}
		t.Rows = append(t.Rows, Row{
			RegistrationID: r.RegistrationID,
			Cells:          cells,
			RegisteredAt:   models.DisplayTime(r.RegisteredAt, loc),
		})
	}
	return t
}

// SameDay reports whether a and b share a calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
