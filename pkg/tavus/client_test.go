package tavus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		body, _ := io.ReadAll(r.Body)
		var req CreateConversationRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "p1", req.PersonaID)
		assert.Equal(t, 3600, req.Properties.MaxCallDuration)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation_id": "c123", "conversation_url": "https://tavus.daily.co/c123"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	conv, err := client.CreateConversation(context.Background(), CreateConversationRequest{
		PersonaID: "p1",
		Properties: ConversationProperties{
			MaxCallDuration: 3600,
			EnableRecording: true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "c123", conv.ConversationID)
	assert.Equal(t, "https://tavus.daily.co/c123", conv.ConversationURL)
}

func TestGetConversationVerbose(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations/c123", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("verbose"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"conversation_id": "c123",
			"status": "ended",
			"transcript": [{"role": "user", "content": "Hi"}],
			"recording_url": "https://example.com/rec.mp4",
			"events": [{"event_type": "application.transcription_ready", "properties": {"transcript": [{"role": "user", "content": "Hi"}]}}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	conv, err := client.GetConversation(context.Background(), "c123", true)

	require.NoError(t, err)
	assert.Equal(t, "ended", conv.Status)
	assert.Equal(t, "https://example.com/rec.mp4", conv.RecordingURL)
	assert.NotEmpty(t, conv.Transcript)
	require.Len(t, conv.Events, 1)
	assert.Equal(t, "application.transcription_ready", conv.Events[0].EventType)
}

func TestEndConversation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/c123/end", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, client.EndConversation(context.Background(), "c123"))
}

func TestAPIErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "conversation not found"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetConversation(context.Background(), "missing", false)

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "conversation not found")
}
