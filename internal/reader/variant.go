package reader

import (
	"fmt"
	"strings"

	"github.com/dagbolade/proposal-box/internal/answer"
)

type Variant string

const (
	VariantDetailed Variant = "detailed"
	VariantPlain    Variant = "plain"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantDetailed, "":
		return VariantDetailed, nil
	case VariantPlain:
		return VariantPlain, nil
	}
	return "", fmt.Errorf("unknown reader variant: %q", s)
}

// messages holds the per-variant labels and status texts.
type messages interface {
	remoteLabel(doc answer.Document) string
	remoteLoaded(n int) answer.Status
	localLoaded(prior RemoteResult, n int) answer.Status
	localEmpty(prior RemoteResult) answer.Status
	localFailed(prior RemoteResult) answer.Status
}

func messagesFor(v Variant) messages {
	if v == VariantPlain {
		return plainMessages{}
	}
	return detailedMessages{}
}

type detailedMessages struct{}

func (detailedMessages) remoteLabel(doc answer.Document) string {
	if doc.Device == answer.OriginMobile {
		return "📱 Mobile User"
	}
	return "💻 Desktop User"
}

func (detailedMessages) remoteLoaded(n int) answer.Status {
	return answer.Status{
		Text: fmt.Sprintf("✅ Loaded %d response(s) from cloud (all devices) 💖", n),
		Kind: answer.KindSuccess,
	}
}

func (detailedMessages) localLoaded(prior RemoteResult, n int) answer.Status {
	switch prior.Kind {
	case RemoteNotConfigured:
		return answer.Status{
			Text: fmt.Sprintf("⚠️ Remote store is NOT configured! Showing %d answer(s) from THIS device only.", n),
			Kind: answer.KindError,
		}
	case RemoteUnavailable:
		return answer.Status{
			Text: fmt.Sprintf("❌ Error loading from cloud: %v. Showing %d local answer(s) only.", prior.Err, n),
			Kind: answer.KindError,
		}
	}
	return answer.Status{
		Text: fmt.Sprintf("No online responses yet. Loaded %d answer(s) from this device 💖", n),
		Kind: answer.KindSuccess,
	}
}

func (detailedMessages) localEmpty(prior RemoteResult) answer.Status {
	switch prior.Kind {
	case RemoteNotConfigured:
		return answer.Status{
			Text: "⚠️ Remote store is NOT configured, and no saved answers were found on this device yet 🥹",
			Kind: answer.KindError,
		}
	case RemoteUnavailable:
		return answer.Status{
			Text: fmt.Sprintf("❌ Error loading from cloud: %v. No saved answers found on this device yet 🥹", prior.Err),
			Kind: answer.KindError,
		}
	}
	return answer.Status{
		Text: "No responses yet, online or on this device 🥹",
		Kind: answer.KindNeutral,
	}
}

func (detailedMessages) localFailed(prior RemoteResult) answer.Status {
	text := "Could not read saved answers 🥹"
	if prior.Kind == RemoteUnavailable {
		text = fmt.Sprintf("❌ Error loading from cloud: %v. %s", prior.Err, text)
	}
	return answer.Status{Text: text, Kind: answer.KindError}
}

type plainMessages struct{}

func (plainMessages) remoteLabel(answer.Document) string { return "Visitor" }

func (plainMessages) remoteLoaded(n int) answer.Status {
	return answer.Status{Text: fmt.Sprintf("Loaded %d response(s)", n), Kind: answer.KindSuccess}
}

func (plainMessages) localLoaded(prior RemoteResult, n int) answer.Status {
	if prior.Kind == RemoteNotConfigured {
		return answer.Status{Text: plainNotConfigured + "Loaded answers from this device", Kind: answer.KindError}
	}
	return answer.Status{Text: "Loaded all answers from this device", Kind: answer.KindSuccess}
}

const plainNotConfigured = "Remote store not configured. "

func (plainMessages) localEmpty(prior RemoteResult) answer.Status {
	text := "No saved answers found on this device yet"
	if prior.Kind == RemoteNotConfigured {
		text = plainNotConfigured + text
	}
	return answer.Status{Text: text, Kind: answer.KindError}
}

func (plainMessages) localFailed(prior RemoteResult) answer.Status {
	text := "Could not read saved answers"
	if prior.Kind == RemoteNotConfigured {
		text = plainNotConfigured + text
	}
	return answer.Status{Text: text, Kind: answer.KindError}
}
