package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViabilityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lead LeadRecord
		want int
	}{
		{
			name: "empty_record",
			lead: LeadRecord{},
			want: 0,
		},
		{
			name: "budget_only",
			lead: LeadRecord{BudgetRange: "$5K/month"},
			want: 30,
		},
		{
			name: "urgent_timeline",
			lead: LeadRecord{Timeline: "ASAP"},
			want: 25,
		},
		{
			name: "soft_timeline",
			lead: LeadRecord{Timeline: "next quarter"},
			want: 15,
		},
		{
			name: "undiscussed_budget_ignored",
			lead: LeadRecord{BudgetRange: "Not discussed"},
			want: 0,
		},
		{
			name: "fully_qualified_capped",
			lead: LeadRecord{
				BudgetRange:     "$10K",
				Timeline:        "this week",
				PainPoints:      []string{"a", "b", "c"},
				BuyingCommittee: []string{"Tom", "Sarah", "Jim"},
			},
			want: 100,
		},
		{
			name: "single_pain_point_partial",
			lead: LeadRecord{
				PainPoints:      []string{"Missed calls"},
				BuyingCommittee: []string{"Tom"},
			},
			want: 33, // 8 + 20 + 5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.lead.ViabilityScore())
		})
	}
}

func TestViabilityBadges(t *testing.T) {
	t.Parallel()

	lead := LeadRecord{
		BudgetRange:     "$10K",
		Timeline:        "urgent",
		PainPoints:      []string{"a", "b", "c"},
		BuyingCommittee: []string{"Tom"},
	}
	assert.Equal(t, []string{
		"Budget Confirmed",
		"High Urgency",
		"Decision Maker Access",
		"Clear Pain Points",
	}, lead.ViabilityBadges())

	assert.Empty(t, LeadRecord{}.ViabilityBadges())
}

// An "Immediate" timeline scores as urgent but does not badge as High
// Urgency, so the static fallback record never badges itself.
func TestImmediateTimelineScoresWithoutBadge(t *testing.T) {
	t.Parallel()

	lead := LeadRecord{Timeline: "Immediate"}
	assert.Equal(t, 25, lead.ViabilityScore())
	assert.NotContains(t, lead.ViabilityBadges(), "High Urgency")

	fallback := FallbackLead("internal@example.com")
	assert.NotContains(t, fallback.ViabilityBadges(), "High Urgency")
}

func TestUndiscussedTimelineEarnsNoPartialCredit(t *testing.T) {
	t.Parallel()

	for _, timeline := range []string{"Unknown", "Not provided", "Not discussed"} {
		assert.Zero(t, LeadRecord{Timeline: timeline}.ViabilityScore(), timeline)
	}
}
