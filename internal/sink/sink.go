// Package sink fans a finished lead report out to its delivery channels.
// Each channel fails independently; a broken sink never blocks a sibling
// and never fails the surrounding request.
package sink

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aifusionlabs/morgan/internal/model"
)

// Report is the immutable per-session payload handed to every sink.
type Report struct {
	ReportID string
	Session  model.ConversationSession

	// Lead is nil when analysis was skipped (short or missing transcript);
	// sinks that can still record the session do so with placeholders.
	Lead *model.LeadRecord

	// Complete is false when polling exhausted before a full transcript
	// arrived and the report was built from a partial one.
	Complete bool

	GeneratedAt time.Time
}

// Sink is one delivery channel for a lead report.
type Sink interface {
	Name() model.SinkName
	Deliver(ctx context.Context, rep *Report) error
}

// Dispatch delivers the report to every sink concurrently and settles all
// of them, returning one result per sink in input order. It never returns
// an error: per-channel failures are captured in the results and logged.
func Dispatch(ctx context.Context, rep *Report, sinks ...Sink) []model.SinkResult {
	results := make([]model.SinkResult, len(sinks))

	var g errgroup.Group
	for i, s := range sinks {
		g.Go(func() error {
			log := zap.L().With(
				zap.String("sink", string(s.Name())),
				zap.String("report_id", rep.ReportID),
				zap.String("conversation_id", rep.Session.ID),
			)

			res := model.SinkResult{Sink: s.Name(), OK: true}
			if err := s.Deliver(ctx, rep); err != nil {
				res.OK = false
				res.Error = err.Error()
				log.Error("sink delivery failed", zap.Error(err))
			} else {
				log.Info("sink delivery succeeded")
			}
			results[i] = res
			return nil
		})
	}

	// Goroutines always return nil; failures live in results.
	_ = g.Wait()
	return results
}
