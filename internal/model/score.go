package model

import "strings"

// ViabilityScore computes the 0-100 lead score shown at the top of the
// hot-lead report. Weights: confirmed budget 30, urgent timeline 25 (15
// for any defined timeline), decision maker identified 20, three or more
// pain points 15 (8 for at least one), committee of three or more 10 (5
// for at least one). Capped at 100.
func (l LeadRecord) ViabilityScore() int {
	score := 0

	if !IsPlaceholder(l.BudgetRange) {
		score += 30
	}

	timeline := strings.ToLower(l.Timeline)
	switch {
	case containsAny(timeline, scoreUrgencyMarkers):
		score += 25
	case strings.Contains(timeline, "month"),
		strings.Contains(timeline, "weeks"),
		timeline != "" && !IsPlaceholder(l.Timeline):
		score += 15
	}

	if len(l.BuyingCommittee) > 0 {
		score += 20
	}

	switch {
	case len(l.PainPoints) >= 3:
		score += 15
	case len(l.PainPoints) >= 1:
		score += 8
	}

	switch {
	case len(l.BuyingCommittee) >= 3:
		score += 10
	case len(l.BuyingCommittee) >= 1:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ViabilityBadges returns the qualification badges rendered under the
// score in the hot-lead report.
func (l LeadRecord) ViabilityBadges() []string {
	var badges []string

	if !IsPlaceholder(l.BudgetRange) {
		badges = append(badges, "Budget Confirmed")
	}
	if containsAny(strings.ToLower(l.Timeline), badgeUrgencyMarkers) {
		badges = append(badges, "High Urgency")
	}
	if len(l.BuyingCommittee) > 0 {
		badges = append(badges, "Decision Maker Access")
	}
	if len(l.PainPoints) >= 3 {
		badges = append(badges, "Clear Pain Points")
	}

	return badges
}

// The score counts "immediate" as urgent but the badge does not, so the
// static fallback record (Timeline "Immediate") never shows a High
// Urgency badge it did not earn from the conversation.
var (
	scoreUrgencyMarkers = []string{"this week", "next week", "asap", "urgent", "immediate"}
	badgeUrgencyMarkers = []string{"this week", "next week", "asap", "urgent"}
)

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
