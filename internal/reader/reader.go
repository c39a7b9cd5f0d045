package reader

import (
	"context"
	"errors"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
	"github.com/dagbolade/proposal-box/internal/locallog"
	"github.com/dagbolade/proposal-box/internal/remote"
	"github.com/rs/zerolog/log"
)

// LogReader is the read side of the device-local log.
type LogReader interface {
	Read(ctx context.Context) ([]answer.Record, error)
}

type Config struct {
	Variant    Variant
	LocalLabel string
	Location   *time.Location
}

const defaultLocalLabel = "This device"

// Reader loads recorded answers from the remote collection, falling back to
// the local log when the remote has nothing to show. The two sources are
// never merged.
type Reader struct {
	remote     remote.Collection
	configured bool
	local      LogReader
	msgs       messages
	localLabel string
	format     answer.Formatter
}

// New returns a Reader. coll may be nil when remoteCfg is not configured.
func New(cfg Config, remoteCfg remote.Config, coll remote.Collection, local LogReader) *Reader {
	label := cfg.LocalLabel
	if label == "" {
		label = defaultLocalLabel
	}

	return &Reader{
		remote:     coll,
		configured: remoteCfg.Configured && coll != nil,
		local:      local,
		msgs:       messagesFor(cfg.Variant),
		localLabel: label,
		format:     answer.NewFormatter(cfg.Location),
	}
}

// LoadAll never fails; every problem ends up in the returned status.
func (r *Reader) LoadAll(ctx context.Context) Result {
	remoteRes := r.fetchRemote(ctx)
	if remoteRes.Kind == RemoteOK {
		return Result{
			Rows:   remoteRes.Rows,
			Status: r.msgs.remoteLoaded(len(remoteRes.Rows)),
			Source: SourceRemote,
		}
	}

	return r.loadLocal(ctx, remoteRes)
}

func (r *Reader) fetchRemote(ctx context.Context) RemoteResult {
	if !r.configured {
		return RemoteResult{Kind: RemoteNotConfigured}
	}

	docs, err := r.remote.Query(ctx, remote.TimeField, remote.Descending)
	if err != nil {
		log.Error().Err(err).Msg("failed to load responses from remote store")
		return RemoteResult{Kind: RemoteUnavailable, Err: err}
	}

	if len(docs) == 0 {
		return RemoteResult{Kind: RemoteEmpty}
	}

	rows := make([]answer.DisplayRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, answer.RowFromDocument(doc, r.msgs.remoteLabel(doc), r.format))
	}

	return RemoteResult{Kind: RemoteOK, Rows: rows}
}

func (r *Reader) loadLocal(ctx context.Context, prior RemoteResult) Result {
	empty := Result{Rows: []answer.DisplayRow{}, Source: SourceNone}

	if r.local == nil {
		empty.Status = r.msgs.localFailed(prior)
		return empty
	}

	records, err := r.local.Read(ctx)
	switch {
	case errors.Is(err, locallog.ErrLogMissing), errors.Is(err, locallog.ErrLogCorrupt):
		log.Debug().Err(err).Str("remote", prior.Kind.String()).Msg("no usable local log")
		empty.Status = r.msgs.localEmpty(prior)
		return empty
	case err != nil:
		log.Error().Err(err).Msg("failed to read local log")
		empty.Status = r.msgs.localFailed(prior)
		return empty
	case len(records) == 0:
		empty.Status = r.msgs.localEmpty(prior)
		return empty
	}

	rows := make([]answer.DisplayRow, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rows = append(rows, answer.RowFromRecord(records[i], r.localLabel, r.format))
	}

	return Result{
		Rows:   rows,
		Status: r.msgs.localLoaded(prior, len(rows)),
		Source: SourceLocal,
	}
}
