package answer

import (
	"fmt"
	"strings"
	"time"
)

type Choice string

const (
	ChoiceAccept Choice = "Accept"
	ChoiceReject Choice = "Reject"
)

// ParseChoice accepts any casing of "accept" or "reject".
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept":
		return ChoiceAccept, nil
	case "reject":
		return ChoiceReject, nil
	}
	return "", fmt.Errorf("invalid choice: %q", s)
}

type Origin string

const (
	OriginMobile  Origin = "Mobile"
	OriginDesktop Origin = "Desktop"
)

// Record is one entry of the device-local log.
type Record struct {
	Choice string `json:"choice"`
	Time   string `json:"time"`
}

// NewRecord stamps the choice with the given instant in ISO-8601 UTC.
func NewRecord(choice Choice, now time.Time) Record {
	return Record{
		Choice: string(choice),
		Time:   now.UTC().Format(RecordTimeLayout),
	}
}

// RecordTimeLayout matches JavaScript's Date.toISOString output.
const RecordTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is one entry of the shared remote collection. Time is zero until
// the database assigns it.
type Document struct {
	ID        string    `json:"id,omitempty"`
	Choice    string    `json:"choice"`
	Time      time.Time `json:"time"`
	UserAgent string    `json:"userAgent"`
	Device    Origin    `json:"device"`
}

type DisplayRow struct {
	Label       string `json:"label"`
	Choice      string `json:"choice"`
	ChoiceClass string `json:"choice_class"`
	Message     string `json:"message"`
	Time        string `json:"time"`
}

type StatusKind string

const (
	KindSuccess StatusKind = "success"
	KindError   StatusKind = "error"
	KindNeutral StatusKind = "neutral"
)

type Status struct {
	Text string     `json:"text"`
	Kind StatusKind `json:"kind"`
}
