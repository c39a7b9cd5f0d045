package recorder

import (
	"context"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
	"github.com/dagbolade/proposal-box/internal/remote"
	"github.com/rs/zerolog/log"
)

// Appender is the write side of the device-local log.
type Appender interface {
	Append(ctx context.Context, rec answer.Record) error
}

// Recorder writes every answer to the local log and then tries the shared
// remote collection once.
type Recorder struct {
	local      Appender
	remote     remote.Collection
	configured bool
	now        func() time.Time
}

// New returns a Recorder. coll may be nil when cfg is not configured.
func New(cfg remote.Config, local Appender, coll remote.Collection) *Recorder {
	return &Recorder{
		local:      local,
		remote:     coll,
		configured: cfg.Configured && coll != nil,
		now:        time.Now,
	}
}

// Record reports whether the remote append succeeded. The local append has
// always been attempted by the time it returns.
func (r *Recorder) Record(ctx context.Context, choice answer.Choice, userAgent string) bool {
	r.appendLocal(ctx, choice)

	if !r.configured {
		log.Warn().Str("choice", string(choice)).Msg("remote store not configured, answer saved locally only")
		return false
	}

	doc := answer.Document{
		Choice:    string(choice),
		UserAgent: userAgent,
		Device:    answer.ClassifyDevice(userAgent),
	}

	id, err := r.remote.Add(ctx, doc)
	if err != nil {
		log.Error().Err(err).Str("choice", string(choice)).Msg("failed to save answer to remote store")
		return false
	}

	log.Info().Str("id", id).Str("choice", string(choice)).Str("device", string(doc.Device)).Msg("answer saved to remote store")
	return true
}

func (r *Recorder) appendLocal(ctx context.Context, choice answer.Choice) {
	if r.local == nil {
		return
	}
	if err := r.local.Append(ctx, answer.NewRecord(choice, r.now())); err != nil {
		log.Warn().Err(err).Str("choice", string(choice)).Msg("local append failed")
	}
}

// StatusFor builds the message shown after an answer was recorded.
func StatusFor(choice answer.Choice, remoteSaved bool) answer.Status {
	var text string
	kind := answer.KindError

	switch choice {
	case answer.ChoiceAccept:
		text = "They clicked YES (Accept) 💖"
		kind = answer.KindSuccess
	default:
		text = "They clicked NO (Reject) 💔"
	}

	if remoteSaved {
		text += " - Saved to cloud! ✅"
	} else {
		text += " - Saved locally only ⚠️"
	}

	return answer.Status{Text: text, Kind: kind}
}
