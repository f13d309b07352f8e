// Package pipeline runs the post-call lead analysis end to end: acquire a
// transcript, extract a lead record, and fan the report out to the sinks.
// A run never fails its caller; every failure mode degrades to a logged,
// partially-delivered report.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/extract"
	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/internal/sink"
	"github.com/aifusionlabs/morgan/internal/transcript"
)

// Pipeline wires the stages together. Construct once and share; all
// stages are safe for concurrent runs.
type Pipeline struct {
	acquirer  *transcript.Acquirer
	extractor *extract.Extractor
	sinks     []sink.Sink
	timeout   time.Duration
}

func New(acquirer *transcript.Acquirer, extractor *extract.Extractor, timeout time.Duration, sinks ...sink.Sink) *Pipeline {
	return &Pipeline{
		acquirer:  acquirer,
		extractor: extractor,
		sinks:     sinks,
		timeout:   timeout,
	}
}

// Outcome summarizes one run for logging and the analyze command. HTTP
// callers deliberately never see it: webhook responses do not depend on
// analysis results.
type Outcome struct {
	ReportID string
	// Skipped is true when no lead was extracted (short transcript or
	// nothing to analyze) and only the session log row went out.
	Skipped bool
	Results []model.SinkResult
}

// Run processes one conversation. inline is the transcript carried in the
// webhook payload, if any; Run polls the conversation API when it is
// missing or too short.
func (p *Pipeline) Run(ctx context.Context, conversationID string, inline json.RawMessage) Outcome {
	reportID := uuid.NewString()
	log := zap.L().With(
		zap.String("report_id", reportID),
		zap.String("conversation_id", conversationID),
	)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Info("lead analysis started")

	res := p.acquirer.Acquire(ctx, conversationID, inline)

	rep := &sink.Report{
		ReportID: reportID,
		Session: model.ConversationSession{
			ID:           conversationID,
			Transcript:   res.Text,
			RecordingURL: res.RecordingURL,
		},
		Complete:    res.Complete,
		GeneratedAt: time.Now(),
	}

	if res.Complete {
		rep.Lead = p.extractor.Extract(ctx, rep.Session.Transcript)
	} else {
		log.Warn("skipped analysis: transcript unusable",
			zap.Int("transcript_chars", len(res.Text)))
	}

	results := sink.Dispatch(ctx, rep, p.sinks...)

	log.Info("lead analysis finished",
		zap.Bool("skipped", rep.Lead == nil),
		zap.Int("sinks", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Outcome{
		ReportID: reportID,
		Skipped:  rep.Lead == nil,
		Results:  results,
	}
}
