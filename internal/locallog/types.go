package locallog

import (
	"context"
	"errors"

	"github.com/dagbolade/proposal-box/internal/answer"
)

// StorageKey is the one slot the device log lives under.
const StorageKey = "proposalAnswers"

var (
	ErrUnavailable = errors.New("local storage unavailable")
	ErrLogMissing  = errors.New("local log missing")
	ErrLogCorrupt  = errors.New("local log corrupt")
)

// Store is the device-local append-only answer log.
type Store interface {
	Append(ctx context.Context, rec answer.Record) error
	Read(ctx context.Context) ([]answer.Record, error)
	Close() error
}
