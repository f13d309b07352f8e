package model

import "strings"

// LeadRecord is the structured qualification data extracted from one
// session transcript. Field tags match the JSON schema the extraction
// prompt requests, so the LLM output unmarshals directly into it.
type LeadRecord struct {
	LeadName    string `json:"lead_name"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
	LeadEmail   string `json:"lead_email"`
	LeadPhone   string `json:"lead_phone"`

	Vertical        string     `json:"vertical"`
	TeamSize        string     `json:"teamSize"`
	Geography       string     `json:"geography"`
	CurrentSystems  string     `json:"currentSystems"`
	BudgetRange     string     `json:"budget_range"`
	Timeline        string     `json:"timeline"`
	PainPoints      []string   `json:"pain_points"`
	BuyingCommittee []string   `json:"buying_committee"`
	SalesPlan       StringList `json:"salesPlan"`

	FollowUpEmail string `json:"followUpEmail"`
	MorganAction  string `json:"morgan_action"`
	TeamAction    string `json:"team_action"`

	// Fallback marks a record substituted after extraction failure so the
	// sinks can route it to the internal address instead of a real lead.
	Fallback bool `json:"-"`
}

// NotProvided is the placeholder written into report fields the extractor
// could not fill.
const NotProvided = "Not Provided"

// placeholderValues are extractor outputs that mean "no data". The CRM
// sink nulls these rather than writing them into Salesforce literally.
var placeholderValues = map[string]struct{}{
	"":              {},
	"unknown":       {},
	"n/a":           {},
	"not provided":  {},
	"not mentioned": {},
	"not discussed": {},
	"null":          {},
}

// IsPlaceholder reports whether v carries no real extracted data.
func IsPlaceholder(v string) bool {
	_, ok := placeholderValues[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// CleanField returns v, or empty string when v is a placeholder.
func CleanField(v string) string {
	if IsPlaceholder(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// OrDefault returns v unless it is a placeholder, in which case def.
func OrDefault(v, def string) string {
	if IsPlaceholder(v) {
		return def
	}
	return strings.TrimSpace(v)
}

// Sanitize collapses whitespace and strips newlines, for subject lines.
func Sanitize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// Truncate shortens s to max runes, appending an ellipsis marker.
func Truncate(s string, max int) string {
	s = Sanitize(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// FallbackLead returns the static placeholder record used when extraction
// fails for any reason. Every field is populated so the report renderers
// never see an empty value, and the follow-up routes to the internal
// address rather than a guessed lead email.
func FallbackLead(internalEmail string) *LeadRecord {
	return &LeadRecord{
		LeadName:        "there",
		Role:            "Leader",
		CompanyName:     "your company",
		LeadEmail:       internalEmail,
		LeadPhone:       "",
		Vertical:        "Field Operations",
		TeamSize:        "Unknown",
		Geography:       "Unknown",
		CurrentSystems:  "Manual Process",
		BudgetRange:     "Unknown",
		Timeline:        "Immediate",
		PainPoints:      []string{"Efficiency", "Scaling"},
		BuyingCommittee: []string{},
		SalesPlan:       StringList{"Schedule follow-up"},
		MorganAction:    "Attempted to capture lead details",
		TeamAction:      "Follow up manually to verify information",
		FollowUpEmail: "<p>Hi there,</p><p>Thanks for chatting with me. I know we covered" +
			" a lot regarding your field operations.</p><p>I'd love to continue the" +
			" conversation and show you how we can solve those efficiency challenges.</p>" +
			"<p>Best,<br>Morgan</p>",
		Fallback: true,
	}
}
