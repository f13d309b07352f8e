package sink

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aifusionlabs/morgan/pkg/resend"
)

// SessionNote is one entry captured in the in-call notepad.
type SessionNote struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
}

// SessionReport summarizes a demo session for the internal team. It goes
// out immediately on the end-call path; the hot-lead analysis follows
// asynchronously once the transcript webhook fires.
type SessionReport struct {
	ConversationID string
	Duration       string
	Notes          []SessionNote
}

// phoenixTZ is the sales team's home timezone for session timestamps.
var phoenixTZ = mustLoadLocation("America/Phoenix")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var sessionTmpl = template.Must(template.New("session").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #0f172a; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
  .content { background: #ffffff; padding: 25px; border: 1px solid #e5e7eb; }
  .footer { background: #f9fafb; color: #6b7280; padding: 15px; text-align: center; font-size: 12px; border-radius: 0 0 8px 8px; }
  .metric { display: inline-block; padding: 10px; background: #f3f4f6; border-radius: 6px; margin-right: 10px; margin-bottom: 10px; }
  .metric-label { font-size: 10px; color: #6b7280; text-transform: uppercase; letter-spacing: 0.5px; }
  .metric-value { font-size: 16px; font-weight: bold; color: #1f2937; }
  .note { margin-bottom: 8px; padding: 8px; background: #eef2ff; border-left: 3px solid #6366f1; border-radius: 4px; }
  .note-meta { font-size: 11px; color: #6b7280; margin-bottom: 2px; }
  .note-text { font-size: 14px; color: #1f2937; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h2 style="margin: 0; font-weight: 300;">Morgan AI <span style="font-weight: 600; color: #34d399;">Session Report</span></h2>
    <div style="font-size: 12px; opacity: 0.7; margin-top: 5px;">{{.ConversationID}}</div>
  </div>
  <div class="content">
    <h3 style="margin-top: 0;">Session Completed &#127937;</h3>
    <p>A demo session with Morgan has successfully concluded.</p>
    <div style="margin: 20px 0;">
      <div class="metric"><div class="metric-label">Date</div><div class="metric-value">{{.Date}}</div></div>
      <div class="metric"><div class="metric-label">Time</div><div class="metric-value">{{.Time}} (Phoenix)</div></div>
      <div class="metric"><div class="metric-label">Duration</div><div class="metric-value">{{.Duration}}</div></div>
    </div>
    <h4 style="border-bottom: 1px solid #e5e7eb; padding-bottom: 8px; margin-top: 25px;">&#128221; User Notes</h4>
    <div style="margin-top: 15px;">
      {{if .Notes}}{{range .Notes}}<div class="note"><div class="note-meta">{{.When}} - {{.Type}}</div><div class="note-text">{{.Text}}</div></div>{{end}}{{else}}<p style="color: #6b7280; font-style: italic;">No notes taken using Session Notepad.</p>{{end}}
    </div>
    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px dashed #e5e7eb;">
      <h4 style="margin: 0 0 10px 0;">&#9203; Analysis Processing</h4>
      <p style="font-size: 13px; color: #6b7280;">The <strong>Hot Lead Analysis</strong> is processing in the background and will be sent to the sales team (and Google Sheets) shortly.</p>
    </div>
  </div>
  <div class="footer">Sent via GoDeskless Platform &bull; AI Fusion Labs</div>
</div>
</body>
</html>`))

type sessionData struct {
	ConversationID string
	Date           string
	Time           string
	Duration       string
	Notes          []sessionNoteView
}

type sessionNoteView struct {
	When string
	Type string
	Text string
}

// SendSessionReport mails the end-of-call summary to the internal address.
func (s *EmailSink) SendSessionReport(ctx context.Context, report SessionReport) error {
	now := time.Now().In(phoenixTZ)

	data := sessionData{
		ConversationID: report.ConversationID,
		Date:           now.Format("1/2/2006"),
		Time:           now.Format("3:04:05 PM"),
		Duration:       report.Duration,
	}
	if data.Duration == "" {
		data.Duration = "N/A"
	}
	for _, n := range report.Notes {
		data.Notes = append(data.Notes, sessionNoteView{
			When: n.Timestamp.In(phoenixTZ).Format("3:04:05 PM"),
			Type: strings.ToUpper(n.Type),
			Text: n.Text,
		})
	}

	var buf bytes.Buffer
	if err := sessionTmpl.Execute(&buf, data); err != nil {
		return eris.Wrap(err, "execute session report template")
	}

	subject := "Session Report: " + report.ConversationID + " [No Notes]"
	if len(report.Notes) > 0 {
		subject = "Session Report: " + report.ConversationID + " [HAS NOTES]"
	}

	if _, err := s.client.Send(ctx, resend.SendRequest{
		From:    s.cfg.From,
		To:      []string{s.cfg.InternalEmail},
		Subject: subject,
		HTML:    buf.String(),
	}); err != nil {
		return eris.Wrap(err, "send session report")
	}
	return nil
}
