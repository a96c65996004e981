// SPDX-License-Identifier: MIT

package panel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Record is one labeled panel row.
type Record struct {
	ID    string
	Date  time.Time
	Label string
}

// Observation is one encoded panel row.
type Observation struct {
	ID    string
	Date  time.Time
	State int
}

// dateLayouts are tried in order.
var dateLayouts = []string{time.RFC3339, time.DateOnly}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, firstErr
}

// ReadCSV parses id,date,label rows. A first row whose date column does not
// parse and reads "date" is taken as a header. Fields are trimmed.
//
// Errors: ErrBadRecord (with the 1-based line) for a wrong column count, an
// empty id or label, or an unparseable date.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Record
	for first := true; ; first = false {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: %d fields, want 3", ErrBadRecord, line, len(fields))
		}
		id, ds, label := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), strings.TrimSpace(fields[2])

		date, err := parseDate(ds)
		if err != nil {
			if first && strings.EqualFold(ds, "date") {
				continue
			}

			return nil, fmt.Errorf("%w: line %d: date %q: %v", ErrBadRecord, line, ds, err)
		}
		if id == "" || label == "" {
			return nil, fmt.Errorf("%w: line %d: empty id or label", ErrBadRecord, line)
		}
		out = append(out, Record{ID: id, Date: date, Label: label})
	}
}

// Encode maps every record's label through enc.
func Encode(records []Record, enc *LabelEncoder) ([]Observation, error) {
	out := make([]Observation, len(records))
	for k, rec := range records {
		s, err := enc.Encode(rec.Label)
		if err != nil {
			return nil, fmt.Errorf("record %d (id=%s): %w", k, rec.ID, err)
		}
		out[k] = Observation{ID: rec.ID, Date: rec.Date, State: s}
	}

	return out, nil
}
