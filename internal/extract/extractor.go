// Package extract derives a structured lead record from a normalized
// transcript via an LLM, degrading to a static record rather than failing.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/internal/resilience"
	"github.com/aifusionlabs/morgan/pkg/gemini"
	"github.com/aifusionlabs/morgan/pkg/openai"
)

// temperature is pinned low for deterministic extraction.
const temperature = 0.1

// Extractor turns transcript text into a fully-populated LeadRecord.
// Gemini is the primary provider; OpenAI takes over on rate limits or
// persistent Gemini failures; a static fallback record is the last line
// of defense. Extract never returns an error to its caller.
type Extractor struct {
	gemini   gemini.Client
	openai   openai.Client
	internal string // fallback routing address

	retry    resilience.RetryConfig
	geminiCB *resilience.CircuitBreaker
	openaiCB *resilience.CircuitBreaker
}

// New builds an Extractor. Either provider may be nil when unconfigured;
// at least one must be set for extraction to produce live results.
func New(geminiClient gemini.Client, openaiClient openai.Client, internalEmail string) *Extractor {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 2
	retry.ShouldRetry = llmRetryable

	return &Extractor{
		gemini:   geminiClient,
		openai:   openaiClient,
		internal: internalEmail,
		retry:    retry,
		geminiCB: newBreaker("gemini"),
		openaiCB: newBreaker("openai"),
	}
}

func newBreaker(provider string) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		OnStateChange: func(from, to resilience.CircuitState) {
			zap.L().Warn("llm circuit state change",
				zap.String("provider", provider),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Extract returns a usable LeadRecord for any non-empty transcript. The
// only nil return is for an empty transcript, which has nothing to
// analyze at all.
func (e *Extractor) Extract(ctx context.Context, transcript string) *model.LeadRecord {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	lead, err := e.tryGemini(ctx, transcript)
	if err == nil {
		return lead
	}
	zap.L().Warn("gemini extraction failed", zap.Error(err))

	lead, err = e.tryOpenAI(ctx, transcript)
	if err == nil {
		return lead
	}
	zap.L().Warn("openai extraction failed", zap.Error(err))

	zap.L().Warn("extraction failed on all providers, using static fallback record")
	return model.FallbackLead(e.internal)
}

func (e *Extractor) tryGemini(ctx context.Context, transcript string) (*model.LeadRecord, error) {
	if e.gemini == nil {
		return nil, eris.New("extract: gemini not configured")
	}

	temp := temperature
	text, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (string, error) {
		return resilience.ExecuteVal(ctx, e.geminiCB, func(ctx context.Context) (string, error) {
			resp, err := e.gemini.GenerateContent(ctx, gemini.GenerateContentRequest{
				Contents: []gemini.Content{
					{Role: "user", Parts: []gemini.Part{
						{Text: analystPrompt},
						{Text: "Transcript:\n\"" + transcript + "\""},
					}},
				},
				GenerationConfig: &gemini.GenerationConfig{
					Temperature:      &temp,
					ResponseMIMEType: "application/json",
				},
			})
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		})
	})
	if err != nil {
		return nil, err
	}

	return parseLead(text)
}

func (e *Extractor) tryOpenAI(ctx context.Context, transcript string) (*model.LeadRecord, error) {
	if e.openai == nil {
		return nil, eris.New("extract: openai not configured")
	}

	temp := temperature
	text, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (string, error) {
		return resilience.ExecuteVal(ctx, e.openaiCB, func(ctx context.Context) (string, error) {
			resp, err := e.openai.ChatCompletion(ctx, openai.ChatCompletionRequest{
				Messages: []openai.Message{
					{Role: "system", Content: analystPrompt},
					{Role: "user", Content: "Transcript:\n\"" + transcript + "\""},
				},
				Temperature:    &temp,
				ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
			})
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", eris.New("empty completion")
			}
			return resp.Choices[0].Message.Content, nil
		})
	})
	if err != nil {
		return nil, err
	}

	return parseLead(text)
}

// parseLead decodes the model output into a LeadRecord, tolerating
// markdown code fences around the JSON.
func parseLead(text string) (*model.LeadRecord, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, eris.New("extract: empty model output")
	}

	var lead model.LeadRecord
	if err := json.Unmarshal([]byte(cleaned), &lead); err != nil {
		return nil, eris.Wrap(err, "extract: parse model output")
	}

	zap.L().Info("extraction complete",
		zap.String("company", lead.CompanyName),
		zap.String("lead", lead.LeadName),
	)
	return &lead, nil
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		// Drop the opening fence line (``` or ```json) and the closing fence.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// llmRetryable retries transient provider errors but not an open circuit
// or a parse failure.
func llmRetryable(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}

	var gerr *gemini.APIError
	if errors.As(err, &gerr) {
		// Rate limits skip straight to the alternate provider.
		return gerr.StatusCode != 429 && resilience.IsTransientHTTPStatus(gerr.StatusCode)
	}
	var oerr *openai.APIError
	if errors.As(err, &oerr) {
		return oerr.StatusCode != 429 && resilience.IsTransientHTTPStatus(oerr.StatusCode)
	}

	return resilience.IsTransient(err)
}
