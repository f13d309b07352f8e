package sink

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/config"
	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/pkg/resend"
)

// EmailSink sends the hot-lead report to the sales recipients and,
// when enabled, a follow-up written in the rep's voice to the lead.
type EmailSink struct {
	client     resend.Client
	cfg        config.ResendConfig
	production bool
}

func NewEmailSink(client resend.Client, cfg config.ResendConfig, production bool) *EmailSink {
	return &EmailSink{client: client, cfg: cfg, production: production}
}

func (s *EmailSink) Name() model.SinkName { return model.SinkEmail }

func (s *EmailSink) Deliver(ctx context.Context, rep *Report) error {
	if rep.Lead == nil {
		zap.L().Info("email sink: no lead record, nothing to report",
			zap.String("conversation_id", rep.Session.ID))
		return nil
	}
	lead := rep.Lead

	html, err := renderReport(lead, rep)
	if err != nil {
		return eris.Wrap(err, "email sink: render report")
	}

	to := s.cfg.SalesRecipients
	if lead.Fallback || len(to) == 0 {
		to = []string{s.cfg.InternalEmail}
	}

	if _, err := s.client.Send(ctx, resend.SendRequest{
		From:    s.cfg.From,
		To:      to,
		Subject: subjectLine(lead, s.production),
		HTML:    html,
	}); err != nil {
		return eris.Wrap(err, "email sink: send report")
	}

	s.sendFollowUp(ctx, lead)
	return nil
}

// sendFollowUp delivers the LLM-drafted follow-up to the lead from the
// rep's address. It is best effort: the report already went out, so a
// failure here is logged rather than failing the sink.
func (s *EmailSink) sendFollowUp(ctx context.Context, lead *model.LeadRecord) {
	if !s.cfg.SendLeadFollowUp || lead.Fallback {
		return
	}
	email := model.CleanField(lead.LeadEmail)
	body := model.CleanField(lead.FollowUpEmail)
	if email == "" || body == "" {
		return
	}

	from := s.cfg.RepFrom
	if from == "" {
		from = s.cfg.From
	}
	subject := "Great speaking with you"
	if company := model.CleanField(lead.CompanyName); company != "" {
		subject += " — next steps for " + company
	}

	if _, err := s.client.Send(ctx, resend.SendRequest{
		From:    from,
		To:      []string{email},
		Subject: subject,
		HTML:    body,
		ReplyTo: s.cfg.InternalEmail,
	}); err != nil {
		zap.L().Warn("email sink: follow-up send failed",
			zap.String("lead_email", email), zap.Error(err))
	}
}

// subjectLine is tuned for inbox triage: the production variant packs the
// qualifying facts into the subject, the development variant is clearly
// marked as test traffic.
func subjectLine(lead *model.LeadRecord, production bool) string {
	name := model.OrDefault(model.Sanitize(lead.LeadName), "Unknown Contact")
	company := model.OrDefault(model.Sanitize(lead.CompanyName), "Unknown Company")

	if !production {
		vertical := model.OrDefault(model.Sanitize(lead.Vertical), "Field Service")
		return "\U0001F7E1 TEST LEAD: " + name + " from " + company + " - " + vertical
	}

	teamSize := model.Truncate(model.OrDefault(model.Sanitize(lead.TeamSize), "Unknown Size"), 20)
	budget := model.Truncate(model.OrDefault(model.Sanitize(lead.BudgetRange), "Budget TBD"), 20)
	pain := "Multiple Pain Points"
	if len(lead.PainPoints) > 0 {
		pain = model.Truncate(model.Sanitize(lead.PainPoints[0]), 40)
	}

	return "\U0001F525 Hot Lead: " + name + " - " + company +
		" (" + teamSize + ", " + budget + ", " + pain + ")"
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; }
  .container { max-width: 640px; margin: 0 auto; padding: 20px; }
  .header { background: #0f172a; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
  .score { font-size: 28px; font-weight: bold; color: #34d399; }
  .badge { display: inline-block; padding: 3px 10px; margin: 2px; background: #eef2ff; color: #4338ca; border-radius: 10px; font-size: 12px; }
  .content { background: #ffffff; padding: 25px; border: 1px solid #e5e7eb; }
  .section { border-bottom: 1px solid #e5e7eb; padding-bottom: 8px; margin-top: 22px; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 6px 4px; vertical-align: top; font-size: 14px; }
  td.label { color: #6b7280; width: 160px; }
  .footer { background: #f9fafb; color: #6b7280; padding: 15px; text-align: center; font-size: 12px; border-radius: 0 0 8px 8px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h2 style="margin: 0; font-weight: 300;">Morgan AI <span style="font-weight: 600; color: #34d399;">Hot Lead Report</span></h2>
    <div style="font-size: 12px; opacity: 0.7; margin-top: 5px;">{{.ConversationID}}</div>
    <div style="margin-top: 12px;"><span class="score">{{.Score}}/100</span></div>
    <div style="margin-top: 6px;">{{range .Badges}}<span class="badge">{{.}}</span>{{end}}</div>
  </div>
  <div class="content">
    <h4 class="section">Contact</h4>
    <table>
      <tr><td class="label">Name</td><td>{{.LeadName}}</td></tr>
      <tr><td class="label">Role</td><td>{{.Role}}</td></tr>
      <tr><td class="label">Company</td><td>{{.CompanyName}}</td></tr>
      <tr><td class="label">Email</td><td>{{.LeadEmail}}</td></tr>
      <tr><td class="label">Phone</td><td>{{.LeadPhone}}</td></tr>
    </table>
    <h4 class="section">Company Profile</h4>
    <table>
      <tr><td class="label">Industry</td><td>{{.Vertical}}</td></tr>
      <tr><td class="label">Team Size</td><td>{{.TeamSize}}</td></tr>
      <tr><td class="label">Location</td><td>{{.Geography}}</td></tr>
      <tr><td class="label">Current Systems</td><td>{{.CurrentSystems}}</td></tr>
    </table>
    <h4 class="section">Qualification</h4>
    <table>
      <tr><td class="label">Budget</td><td>{{.BudgetRange}}</td></tr>
      <tr><td class="label">Timeline</td><td>{{.Timeline}}</td></tr>
      <tr><td class="label">Buying Committee</td><td>{{.BuyingCommittee}}</td></tr>
    </table>
    <h4 class="section">Pain Points</h4>
    <ul>{{range .PainPoints}}<li>{{.}}</li>{{end}}</ul>
    <h4 class="section">Sales Strategy</h4>
    <ul>{{range .SalesPlan}}<li>{{.}}</li>{{end}}</ul>
    <h4 class="section">Demo Focus Areas</h4>
    <ul>{{range .FocusAreas}}<li>{{.}}</li>{{end}}</ul>
    <h4 class="section">Conversation Actions</h4>
    <table>
      <tr><td class="label">Morgan committed to</td><td>{{.MorganAction}}</td></tr>
      <tr><td class="label">Team must</td><td>{{.TeamAction}}</td></tr>
    </table>
    {{if .RecordingURL}}<p style="margin-top: 20px;"><a href="{{.RecordingURL}}">Session recording</a></p>{{end}}
  </div>
  <div class="footer">Sent via GoDeskless Platform &bull; AI Fusion Labs</div>
</div>
</body>
</html>`))

type reportData struct {
	ConversationID  string
	Score           int
	Badges          []string
	LeadName        string
	Role            string
	CompanyName     string
	LeadEmail       string
	LeadPhone       string
	Vertical        string
	TeamSize        string
	Geography       string
	CurrentSystems  string
	BudgetRange     string
	Timeline        string
	BuyingCommittee string
	PainPoints      []string
	SalesPlan       []string
	FocusAreas      []string
	MorganAction    string
	TeamAction      string
	RecordingURL    string
}

// demoFocusAreas is the fixed demo-prep checklist for the sales team,
// with the pricing line filled in from the extracted budget.
func demoFocusAreas(lead *model.LeadRecord) []string {
	budget := strings.TrimSpace(lead.BudgetRange)
	if budget == "" {
		budget = "$4-5K/month"
	}
	return []string{
		"Focus on DISPATCHER VIEW and complete workflow",
		"Show real-time tech communication preventing missed appointments",
		"Demonstrate QuickBooks integration to eliminate manual data entry",
		"CLARIFY PRICING: " + budget + " total",
	}
}

func renderReport(lead *model.LeadRecord, rep *Report) (string, error) {
	data := reportData{
		ConversationID:  rep.Session.ID,
		Score:           lead.ViabilityScore(),
		Badges:          lead.ViabilityBadges(),
		LeadName:        model.OrDefault(lead.LeadName, model.NotProvided),
		Role:            model.OrDefault(lead.Role, model.NotProvided),
		CompanyName:     model.OrDefault(lead.CompanyName, model.NotProvided),
		LeadEmail:       model.OrDefault(lead.LeadEmail, model.NotProvided),
		LeadPhone:       model.OrDefault(lead.LeadPhone, model.NotProvided),
		Vertical:        model.OrDefault(lead.Vertical, model.NotProvided),
		TeamSize:        model.OrDefault(lead.TeamSize, model.NotProvided),
		Geography:       model.OrDefault(lead.Geography, model.NotProvided),
		CurrentSystems:  model.OrDefault(lead.CurrentSystems, "Not mentioned"),
		BudgetRange:     model.OrDefault(lead.BudgetRange, "Not discussed"),
		Timeline:        model.OrDefault(lead.Timeline, "Not discussed"),
		BuyingCommittee: model.OrDefault(model.StringList(lead.BuyingCommittee).Join(", "), "Not mentioned"),
		PainPoints:      lead.PainPoints,
		SalesPlan:       lead.SalesPlan,
		FocusAreas:      demoFocusAreas(lead),
		MorganAction:    model.OrDefault(lead.MorganAction, model.NotProvided),
		TeamAction:      model.OrDefault(lead.TeamAction, model.NotProvided),
		RecordingURL:    rep.Session.RecordingURL,
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", eris.Wrap(err, "execute report template")
	}
	return buf.String(), nil
}
