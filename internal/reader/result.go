package reader

import "github.com/dagbolade/proposal-box/internal/answer"

type RemoteKind int

const (
	RemoteOK RemoteKind = iota
	RemoteEmpty
	RemoteUnavailable
	RemoteNotConfigured
)

func (k RemoteKind) String() string {
	switch k {
	case RemoteOK:
		return "ok"
	case RemoteEmpty:
		return "empty"
	case RemoteUnavailable:
		return "unavailable"
	case RemoteNotConfigured:
		return "not_configured"
	}
	return "unknown"
}

// RemoteResult is the outcome of the first read step. Rows is set only for
// RemoteOK and Err only for RemoteUnavailable.
type RemoteResult struct {
	Kind RemoteKind
	Rows []answer.DisplayRow
	Err  error
}

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceNone   Source = "none"
)

type Result struct {
	Rows   []answer.DisplayRow `json:"rows"`
	Status answer.Status       `json:"status"`
	Source Source              `json:"source"`
}
