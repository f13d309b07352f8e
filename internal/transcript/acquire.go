package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/resilience"
	"github.com/aifusionlabs/morgan/pkg/tavus"
)

// errTooShort marks a poll result below the usable threshold, so the
// retry loop keeps waiting for the upstream to finish transcription.
var errTooShort = eris.New("transcript below minimum length")

// Result is the best transcript an acquisition attempt produced.
type Result struct {
	Text         string
	RecordingURL string
	// Complete is false when the text never reached the minimum usable
	// length; the pipeline then skips analysis but still records the
	// session.
	Complete bool
}

// Acquirer obtains transcripts, preferring the inline webhook payload and
// falling back to polling the conversation API. Acquisition is read-only
// against the upstream and safe to repeat for the same conversation.
type Acquirer struct {
	client   tavus.Client
	minChars int
	retry    resilience.RetryConfig
}

// NewAcquirer builds an Acquirer. minChars is the minimum usable
// transcript length; polling runs attempts times with fixed increasing
// delays (baseDelay, 2*baseDelay, ...).
func NewAcquirer(client tavus.Client, minChars, attempts int, baseDelay time.Duration) *Acquirer {
	cfg := resilience.PollSchedule(attempts, baseDelay)
	cfg.ShouldRetry = pollRetryable
	cfg.OnRetry = resilience.RetryLogger("tavus", "get_conversation")
	return &Acquirer{
		client:   client,
		minChars: minChars,
		retry:    cfg,
	}
}

// Acquire returns the best available transcript for the conversation.
// An inline payload at or above the minimum length short-circuits the
// upstream poll entirely. Acquire never fails the caller: when every
// attempt falls short it returns the longest partial text seen with
// Complete=false.
func (a *Acquirer) Acquire(ctx context.Context, conversationID string, inline json.RawMessage) Result {
	log := zap.L().With(zap.String("conversation_id", conversationID))

	if text := Normalize(inline); len(text) >= a.minChars {
		log.Debug("using inline transcript", zap.Int("chars", len(text)))
		return Result{Text: text, Complete: true}
	}

	best := Result{Text: Normalize(inline)}

	conv, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*tavus.Conversation, error) {
		conv, err := a.client.GetConversation(ctx, conversationID, true)
		if err != nil {
			return nil, err
		}

		text := FromConversation(conv)
		if len(text) > len(best.Text) {
			best.Text = text
			best.RecordingURL = conv.RecordingURL
		}
		if len(text) < a.minChars {
			return nil, errTooShort
		}
		return conv, nil
	})

	if err != nil {
		log.Warn("transcript acquisition incomplete",
			zap.Int("chars", len(best.Text)),
			zap.Int("min_chars", a.minChars),
			zap.Error(err),
		)
		return best
	}

	best.Complete = true
	if best.RecordingURL == "" {
		best.RecordingURL = conv.RecordingURL
	}
	return best
}

// pollRetryable treats a short transcript and transient upstream errors
// as retryable; anything else (bad key, unknown conversation) stops the
// poll immediately.
func pollRetryable(err error) bool {
	if errors.Is(err, errTooShort) {
		return true
	}
	var apiErr *tavus.APIError
	if errors.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
	}
	return resilience.IsTransient(err)
}
