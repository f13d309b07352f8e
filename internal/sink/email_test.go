package sink

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusionlabs/morgan/internal/config"
	"github.com/aifusionlabs/morgan/internal/model"
)

func emailCfg() config.ResendConfig {
	return config.ResendConfig{
		From:            "Morgan AI <noreply@aifusionlabs.app>",
		SalesRecipients: []string{"sales@aifusionlabs.app"},
		InternalEmail:   "aifusionlabs@gmail.com",
		RepName:         "Jordan",
		RepFrom:         "Jordan <jordan@aifusionlabs.app>",
	}
}

func TestEmailSinkSendsReport(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	require.Len(t, mail.sent, 1)

	sent := mail.sent[0]
	assert.Equal(t, []string{"sales@aifusionlabs.app"}, sent.To)
	assert.Contains(t, sent.Subject, "Hot Lead: Rob Jones - Acme HVAC")
	assert.Contains(t, sent.Subject, "15 techs")
	assert.Contains(t, sent.HTML, "Acme HVAC")
	assert.Contains(t, sent.HTML, "Missed calls")
	assert.Contains(t, sent.HTML, "/100")
}

func TestReportIncludesDemoFocusAreas(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	require.Len(t, mail.sent, 1)

	html := mail.sent[0].HTML
	assert.Contains(t, html, "Demo Focus Areas")
	assert.Contains(t, html, "DISPATCHER VIEW")
	assert.Contains(t, html, "QuickBooks integration")
	assert.Contains(t, html, "CLARIFY PRICING: $4-5K/month total")
}

func TestDemoFocusAreasPricingDefault(t *testing.T) {
	t.Parallel()

	areas := demoFocusAreas(&model.LeadRecord{})
	require.Len(t, areas, 4)
	assert.Equal(t, "CLARIFY PRICING: $4-5K/month total", areas[3])
}

func TestEmailSinkDevSubject(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), false)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Subject, "TEST LEAD: Rob Jones from Acme HVAC - HVAC")
}

func TestEmailSinkFallbackRoutesInternal(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	lead := model.FallbackLead("aifusionlabs@gmail.com")
	require.NoError(t, s.Deliver(context.Background(), sampleReport(lead)))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"aifusionlabs@gmail.com"}, mail.sent[0].To)
}

func TestEmailSinkNilLeadIsNoop(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(nil)))
	assert.Zero(t, mail.sentCount())
}

func TestEmailSinkFollowUp(t *testing.T) {
	t.Parallel()

	cfg := emailCfg()
	cfg.SendLeadFollowUp = true

	mail := &fakeResend{}
	s := NewEmailSink(mail, cfg, true)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	require.Len(t, mail.sent, 2)

	followUp := mail.sent[1]
	assert.Equal(t, []string{"rob@acmehvac.com"}, followUp.To)
	assert.Equal(t, "Jordan <jordan@aifusionlabs.app>", followUp.From)
	assert.Equal(t, "aifusionlabs@gmail.com", followUp.ReplyTo)
	assert.Contains(t, followUp.HTML, "Hi Rob")
}

func TestEmailSinkFollowUpFailureDoesNotFailSink(t *testing.T) {
	t.Parallel()

	cfg := emailCfg()
	cfg.SendLeadFollowUp = true

	mail := &fakeResend{errs: []error{nil, eris.New("resend down")}}
	s := NewEmailSink(mail, cfg, true)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	assert.Equal(t, 1, mail.sentCount())
}

func TestEmailSinkReportFailure(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{errs: []error{eris.New("resend down")}}
	s := NewEmailSink(mail, emailCfg(), true)

	err := s.Deliver(context.Background(), sampleReport(sampleLead()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send report")
}

func TestSubjectLineTruncation(t *testing.T) {
	t.Parallel()

	lead := sampleLead()
	lead.PainPoints = []string{"An exceptionally long pain point description that keeps going and going"}
	lead.BudgetRange = "somewhere between four and five thousand dollars"

	subject := subjectLine(lead, true)
	assert.Contains(t, subject, "...")
	assert.Less(t, len(subject), 160)
}

func TestSendSessionReport(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	err := s.SendSessionReport(context.Background(), SessionReport{
		ConversationID: "c-abc123",
		Duration:       "12m 30s",
		Notes:          []SessionNote{{Type: "insight", Text: "asked about QuickBooks"}},
	})
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)

	sent := mail.sent[0]
	assert.Equal(t, []string{"aifusionlabs@gmail.com"}, sent.To)
	assert.Equal(t, "Session Report: c-abc123 [HAS NOTES]", sent.Subject)
	assert.Contains(t, sent.HTML, "12m 30s")
	assert.Contains(t, sent.HTML, "asked about QuickBooks")
}

func TestSendSessionReportNoNotes(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	s := NewEmailSink(mail, emailCfg(), true)

	require.NoError(t, s.SendSessionReport(context.Background(), SessionReport{ConversationID: "c-1"}))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Session Report: c-1 [No Notes]", mail.sent[0].Subject)
	assert.Contains(t, mail.sent[0].HTML, "No notes taken")
}
