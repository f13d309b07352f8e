// Package tavus provides a client for the Tavus conversational video API.
package tavus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://tavusapi.com/v2"

// Event types emitted by the vendor in webhook callbacks and the verbose
// event log.
const (
	EventTranscriptionReady = "application.transcription_ready"
	EventShutdown           = "system.shutdown"
)

// Client performs conversation lifecycle operations against the Tavus API.
type Client interface {
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error)
	GetConversation(ctx context.Context, conversationID string, verbose bool) (*Conversation, error)
	EndConversation(ctx context.Context, conversationID string) error
}

// CreateConversationRequest is the request body for POST /conversations.
type CreateConversationRequest struct {
	PersonaID      string                 `json:"persona_id"`
	CustomGreeting string                 `json:"custom_greeting,omitempty"`
	CallbackURL    string                 `json:"callback_url,omitempty"`
	AudioOnly      bool                   `json:"audio_only,omitempty"`
	DocumentTags   []string               `json:"document_tags,omitempty"`
	Properties     ConversationProperties `json:"properties"`
}

// ConversationProperties are vendor-side call settings.
type ConversationProperties struct {
	MaxCallDuration int  `json:"max_call_duration,omitempty"`
	EnableRecording bool `json:"enable_recording,omitempty"`
}

// Conversation is the vendor's representation of one session. Transcript
// shape varies across API revisions (plain string, array of turns, or
// only present inside events), so it is carried raw and resolved by the
// normalizer.
type Conversation struct {
	ConversationID  string          `json:"conversation_id"`
	ConversationURL string          `json:"conversation_url,omitempty"`
	Status          string          `json:"status,omitempty"`
	Transcript      json.RawMessage `json:"transcript,omitempty"`
	RecordingURL    string          `json:"recording_url,omitempty"`
	Events          []Event         `json:"events,omitempty"`
}

// Event is one entry of the verbose conversation event log.
type Event struct {
	EventType  string          `json:"event_type"`
	Properties EventProperties `json:"properties"`
}

// EventProperties carries the event payload fields this pipeline reads.
type EventProperties struct {
	Transcript json.RawMessage `json:"transcript,omitempty"`
}

// APIError is a non-2xx response from the Tavus API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavus: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Tavus API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	var conv Conversation
	if err := c.do(ctx, http.MethodPost, "/conversations", req, &conv); err != nil {
		return nil, eris.Wrap(err, "tavus: create conversation")
	}
	return &conv, nil
}

func (c *httpClient) GetConversation(ctx context.Context, conversationID string, verbose bool) (*Conversation, error) {
	path := "/conversations/" + conversationID
	if verbose {
		path += "?verbose=true"
	}

	var conv Conversation
	if err := c.do(ctx, http.MethodGet, path, nil, &conv); err != nil {
		return nil, eris.Wrap(err, "tavus: get conversation")
	}
	return &conv, nil
}

func (c *httpClient) EndConversation(ctx context.Context, conversationID string) error {
	if err := c.do(ctx, http.MethodPost, "/conversations/"+conversationID+"/end", nil, nil); err != nil {
		return eris.Wrap(err, "tavus: end conversation")
	}
	return nil
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return eris.Wrap(err, "unmarshal response")
		}
	}
	return nil
}
