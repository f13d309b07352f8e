package gemini

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

func TestGenerateContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		var req GenerateContentRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMIMEType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"lead_name\":"}, {"text": " \"Tom\"}"}]}}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	temp := 0.1
	resp, err := client.GenerateContent(context.Background(), GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "analyze this"}}}},
		GenerationConfig: &GenerationConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"lead_name": "Tom"}`, resp.Text())
}

func TestGenerateContentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "rate_limit",
			status:     http.StatusTooManyRequests,
			body:       `{"error": {"message": "quota exceeded"}}`,
			wantStatus: 429,
		},
		{
			name:       "server_error",
			status:     http.StatusInternalServerError,
			body:       `{"error": {"message": "internal"}}`,
			wantStatus: 500,
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			_, err := client.GenerateContent(context.Background(), GenerateContentRequest{
				Contents: []Content{{Parts: []Part{{Text: "hi"}}}},
			})
			require.Error(t, err)

			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
		})
	}
}

func TestTextEmptyCandidates(t *testing.T) {
	t.Parallel()

	resp := &GenerateContentResponse{}
	assert.Equal(t, "", resp.Text())
}
