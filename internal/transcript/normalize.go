// Package transcript turns the vendor's heterogeneous transcript payloads
// into one canonical text form and fetches them when the webhook payload
// arrives without one.
package transcript

import (
	"encoding/json"
	"strings"

	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/pkg/tavus"
)

// shape is the resolved variant of a raw transcript payload. Upstream has
// shipped transcripts as a plain string, an array of turn objects, and an
// array of turn arrays; the ambiguity is resolved exactly once here.
type shape int

const (
	shapeEmpty shape = iota
	shapeString
	shapeTurns
	shapeNested
)

type resolved struct {
	shape  shape
	text   string
	turns  []model.Turn
	nested [][]model.Turn
}

func resolve(raw json.RawMessage) resolved {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return resolved{shape: shapeEmpty}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return resolved{shape: shapeString, text: s}
	}

	var turns []model.Turn
	if err := json.Unmarshal(raw, &turns); err == nil {
		return resolved{shape: shapeTurns, turns: turns}
	}

	var nested [][]model.Turn
	if err := json.Unmarshal(raw, &nested); err == nil {
		return resolved{shape: shapeNested, nested: nested}
	}

	// Unrecognized shape: fall back to the raw serialization so the
	// pipeline still has something to log and report.
	return resolved{shape: shapeString, text: trimmed}
}

// Normalize converts any transcript payload into newline-joined
// "<role>: <text>" lines. It is total: unparseable input degrades to a
// best-effort string, never an error. System-role turns and empty turns
// are dropped, exact duplicate lines are removed keeping first occurrence
// (upstream replays events), and a missing role defaults to "unknown".
func Normalize(raw json.RawMessage) string {
	r := resolve(raw)

	switch r.shape {
	case shapeEmpty:
		return ""
	case shapeString:
		return stripSystemLines(r.text)
	case shapeNested:
		var flat []model.Turn
		for _, group := range r.nested {
			flat = append(flat, group...)
		}
		return joinTurns(flat)
	default:
		return joinTurns(r.turns)
	}
}

// stripSystemLines drops system-role lines from an already-canonical
// "<role>: <text>" string, so pre-joined payloads honor the same rule as
// turn arrays.
func stripSystemLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		prefix := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(prefix, string(model.RoleSystem)+":") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func joinTurns(turns []model.Turn) string {
	seen := make(map[string]struct{}, len(turns))
	lines := make([]string, 0, len(turns))

	for _, turn := range turns {
		if turn.Role == model.RoleSystem {
			continue
		}
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}

		role := turn.Role
		if role == "" {
			role = model.RoleUnknown
		}

		line := string(role) + ": " + text
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// FromConversation extracts the best transcript text from a conversation
// record: the top-level transcript when present, otherwise the payload of
// the transcription-ready event in the verbose event log.
func FromConversation(conv *tavus.Conversation) string {
	if conv == nil {
		return ""
	}

	if text := Normalize(conv.Transcript); text != "" {
		return text
	}

	for _, ev := range conv.Events {
		if ev.EventType != tavus.EventTranscriptionReady {
			continue
		}
		if text := Normalize(ev.Properties.Transcript); text != "" {
			return text
		}
	}
	return ""
}
