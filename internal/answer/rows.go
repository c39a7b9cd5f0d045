package answer

import (
	"strings"
	"time"
)

const (
	placeholderMessage = "—"
	missingValue       = "-"

	// DisplayTimeLayout approximates the browser's toLocaleString output.
	DisplayTimeLayout = "1/2/2006, 3:04:05 PM"
)

// Formatter renders timestamps in a fixed location.
type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

func (f Formatter) Format(t time.Time) string {
	if t.IsZero() {
		return missingValue
	}
	return t.In(f.loc).Format(DisplayTimeLayout)
}

// FormatISO formats a stored ISO-8601 string, returning "-" when it is empty
// or unparseable.
func (f Formatter) FormatISO(s string) string {
	if s == "" {
		return missingValue
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return missingValue
	}
	return f.Format(t)
}

func RowFromRecord(r Record, label string, f Formatter) DisplayRow {
	return newRow(label, r.Choice, f.FormatISO(r.Time))
}

func RowFromDocument(d Document, label string, f Formatter) DisplayRow {
	return newRow(label, d.Choice, f.Format(d.Time))
}

func newRow(label, choice, formatted string) DisplayRow {
	row := DisplayRow{
		Label:       label,
		Choice:      choice,
		ChoiceClass: choiceClass(choice),
		Message:     placeholderMessage,
		Time:        formatted,
	}
	if row.Choice == "" {
		row.Choice = missingValue
	}
	return row
}

func choiceClass(choice string) string {
	if strings.EqualFold(choice, string(ChoiceAccept)) {
		return "accept"
	}
	return "reject"
}
