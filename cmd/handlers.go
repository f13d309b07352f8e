package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/sink"
	"github.com/aifusionlabs/morgan/internal/transcript"
	"github.com/aifusionlabs/morgan/pkg/tavus"
)

// defaultGreeting is what Morgan opens every session with, before TTS
// cleanup.
const defaultGreeting = "Hey! I'm Morgan, your goDeskless guide. I'm here to answer questions, share ideas, or just talk through what you're working on. What brings you here today?"

// defaultKBTags select the knowledge-base documents attached to every
// conversation.
var defaultKBTags = []string{
	"morgan-godeskless-pricing",
	"morgan-godeskless-roi",
	"morgan-godeskless-competition",
	"morgan-godeskless-battle-cards",
	"morgan-godeskless-implementation",
	"morgan-godeskless-objections",
	"morgan-godeskless-problems-goals",
	"morgan-godeskless-integrations",
	"morgan-godeskless-case-studies",
	"morgan-godeskless-industry-pain",
	"morgan-godeskless-demo",
}

// webhookEvent is the Tavus callback payload. Only the fields the
// pipeline needs are decoded; everything else is vendor noise.
type webhookEvent struct {
	EventType      string          `json:"event_type"`
	ConversationID string          `json:"conversation_id"`
	Transcript     json.RawMessage `json:"transcript"`
	Properties     struct {
		Transcript json.RawMessage `json:"transcript"`
	} `json:"properties"`
}

// inlineTranscript returns whichever transcript the event carried; the
// vendor has shipped it both at the top level and under properties.
func (e *webhookEvent) inlineTranscript() json.RawMessage {
	if len(e.Transcript) > 0 {
		return e.Transcript
	}
	return e.Properties.Transcript
}

// handleWebhook accepts every event with 200: the vendor retries non-2xx
// responses, and a retried analysis means duplicate emails. Processing
// happens in the background after the response is written.
func (a *app) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		zap.L().Warn("webhook: undecodable payload", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook received"})
		return
	}

	log := zap.L().With(
		zap.String("event_type", event.EventType),
		zap.String("conversation_id", event.ConversationID),
	)

	switch event.EventType {
	case tavus.EventTranscriptionReady:
		log.Info("webhook: transcript ready, queueing analysis")
		go a.pipeline.Run(context.WithoutCancel(r.Context()), event.ConversationID, event.inlineTranscript())
	case tavus.EventShutdown:
		log.Info("webhook: session shut down")
	default:
		log.Info("webhook: ignoring event")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event processed"})
}

type createConversationRequest struct {
	PersonaID    string   `json:"persona_id"`
	AudioOnly    bool     `json:"audio_only"`
	DocumentTags []string `json:"document_tags"`
}

func (a *app) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	personaID := req.PersonaID
	if personaID == "" {
		personaID = a.cfg.Tavus.PersonaID
	}

	conv, err := a.tavus.CreateConversation(r.Context(), tavus.CreateConversationRequest{
		PersonaID:      personaID,
		CustomGreeting: cleanGreetingForTTS(defaultGreeting),
		CallbackURL:    a.cfg.Tavus.CallbackURL,
		AudioOnly:      req.AudioOnly,
		DocumentTags:   mergeTags(defaultKBTags, req.DocumentTags),
		Properties: tavus.ConversationProperties{
			MaxCallDuration: 3600,
			EnableRecording: true,
		},
	})
	if err != nil {
		zap.L().Error("create conversation failed", zap.Error(err))
		writeVendorError(w, err)
		return
	}

	zap.L().Info("conversation created",
		zap.String("conversation_id", conv.ConversationID),
		zap.Bool("audio_only", req.AudioOnly),
	)
	writeJSON(w, http.StatusOK, conv)
}

// statusResponse is the conversation with its transcript flattened to a
// readable string, whichever shape the vendor returned it in.
type statusResponse struct {
	*tavus.Conversation
	Transcript string `json:"transcript,omitempty"`
}

func (a *app) handleConversationStatus(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	conv, err := a.tavus.GetConversation(r.Context(), conversationID, true)
	if err != nil {
		zap.L().Error("conversation status failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
		writeVendorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Conversation: conv,
		Transcript:   transcript.FromConversation(conv),
	})
}

type endConversationRequest struct {
	Duration string             `json:"duration"`
	Notes    []sink.SessionNote `json:"notes"`
}

// handleEndConversation ends the vendor call and mails the session
// report. Both steps are best effort: the lead analysis arrives later via
// the transcript webhook, so nothing here may fail the caller.
func (a *app) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req endConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = endConversationRequest{}
	}

	if err := a.tavus.EndConversation(r.Context(), conversationID); err != nil {
		zap.L().Warn("end conversation upstream call failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}

	if err := a.email.SendSessionReport(r.Context(), sink.SessionReport{
		ConversationID: conversationID,
		Duration:       req.Duration,
		Notes:          req.Notes,
	}); err != nil {
		zap.L().Warn("session report email failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Session Ended. Analysis queued via Webhook.",
	})
}

// cleanGreetingForTTS rewrites characters the TTS engine stumbles on:
// ellipses read as "dot dot dot", em-dashes as noise, and "goDeskless"
// mispronounced as "Geo-Deskless".
func cleanGreetingForTTS(greeting string) string {
	greeting = strings.ReplaceAll(greeting, "...", ",")
	greeting = strings.ReplaceAll(greeting, "goDeskless", "go-deskless")
	greeting = strings.ReplaceAll(greeting, "GoDeskless", "go-deskless")
	greeting = strings.ReplaceAll(greeting, "—", ",")
	return greeting
}

// mergeTags appends custom tags to the defaults, dropping duplicates
// while keeping order.
func mergeTags(defaults, custom []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(custom))
	merged := make([]string, 0, len(defaults)+len(custom))
	for _, t := range append(append([]string{}, defaults...), custom...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}
