package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/config"
	"github.com/aifusionlabs/morgan/internal/extract"
	"github.com/aifusionlabs/morgan/internal/pipeline"
	"github.com/aifusionlabs/morgan/internal/sink"
	"github.com/aifusionlabs/morgan/internal/transcript"
	"github.com/aifusionlabs/morgan/pkg/gemini"
	"github.com/aifusionlabs/morgan/pkg/gsheets"
	"github.com/aifusionlabs/morgan/pkg/openai"
	"github.com/aifusionlabs/morgan/pkg/resend"
	"github.com/aifusionlabs/morgan/pkg/salesforce"
	"github.com/aifusionlabs/morgan/pkg/tavus"
)

// app holds the wired service graph shared by the serve and analyze
// commands.
type app struct {
	cfg      *config.Config
	tavus    tavus.Client
	email    *sink.EmailSink
	pipeline *pipeline.Pipeline
}

func initApp(ctx context.Context) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tavusClient := tavus.NewClient(cfg.Tavus.APIKey, tavus.WithBaseURL(cfg.Tavus.BaseURL))

	var geminiClient gemini.Client
	if cfg.Gemini.Key != "" {
		geminiClient = gemini.NewClient(cfg.Gemini.Key,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model),
		)
	}
	var openaiClient openai.Client
	if cfg.OpenAI.Key != "" {
		openaiClient = openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
		)
	}

	emailSink := sink.NewEmailSink(
		resend.NewClient(cfg.Resend.Key, resend.WithBaseURL(cfg.Resend.BaseURL)),
		cfg.Resend,
		cfg.IsProduction(),
	)
	sinks := []sink.Sink{emailSink}

	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.ClientEmail != "" {
		appender, err := gsheets.New(ctx, gsheets.Config{
			ClientEmail:   cfg.Sheets.ClientEmail,
			PrivateKey:    cfg.Sheets.PrivateKey,
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			Range:         cfg.Sheets.Range,
		})
		if err != nil {
			return nil, eris.Wrap(err, "init sheets appender")
		}
		sinks = append(sinks, sink.NewSheetSink(appender))
	} else {
		zap.L().Warn("sheets sink disabled: spreadsheet not configured")
	}

	if cfg.Salesforce.Enabled {
		sf, err := salesforce.New(salesforce.Config{
			LoginURL:     cfg.Salesforce.LoginURL,
			ClientID:     cfg.Salesforce.ClientID,
			ClientSecret: cfg.Salesforce.ClientSecret,
		}, salesforce.WithRateLimit(cfg.Salesforce.RateLimitRPS))
		if err != nil {
			return nil, eris.Wrap(err, "init salesforce client")
		}
		sinks = append(sinks, sink.NewCRMSink(sf))
	}

	acquirer := transcript.NewAcquirer(
		tavusClient,
		cfg.Pipeline.MinTranscriptChars,
		cfg.Pipeline.PollAttempts,
		time.Duration(cfg.Pipeline.PollBaseDelaySecs)*time.Second,
	)
	extractor := extract.New(geminiClient, openaiClient, cfg.Resend.InternalEmail)

	return &app{
		cfg:      cfg,
		tavus:    tavusClient,
		email:    emailSink,
		pipeline: pipeline.New(acquirer, extractor, time.Duration(cfg.Pipeline.TimeoutSecs)*time.Second, sinks...),
	}, nil
}
