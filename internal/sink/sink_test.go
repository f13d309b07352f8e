package sink

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/pkg/resend"
)

// fakeResend records sent emails and optionally fails per call.
type fakeResend struct {
	mu   sync.Mutex
	sent []resend.SendRequest
	errs []error // consumed in order; nil entries succeed
}

func (f *fakeResend) Send(ctx context.Context, req resend.SendRequest) (*resend.SendResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	if err != nil {
		return nil, err
	}
	f.sent = append(f.sent, req)
	return &resend.SendResponse{ID: "email_1"}, nil
}

func (f *fakeResend) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeAppender records appended rows.
type fakeAppender struct {
	mu   sync.Mutex
	rows [][]any
	err  error
}

func (f *fakeAppender) AppendRow(ctx context.Context, row []any) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row)
	return nil
}

// fakeSalesforce records inserted lead fields.
type fakeSalesforce struct {
	mu      sync.Mutex
	inserts []map[string]any
	err     error
}

func (f *fakeSalesforce) InsertLead(ctx context.Context, fields map[string]any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, fields)
	return "00Q000000000001", nil
}

func sampleLead() *model.LeadRecord {
	return &model.LeadRecord{
		LeadName:        "Rob Jones",
		Role:            "Owner",
		CompanyName:     "Acme HVAC",
		LeadEmail:       "rob@acmehvac.com",
		LeadPhone:       "555-0100",
		Vertical:        "HVAC",
		TeamSize:        "15 techs",
		Geography:       "Phoenix, AZ",
		CurrentSystems:  "Paper and whiteboards",
		BudgetRange:     "$4-5K/month",
		Timeline:        "ASAP",
		PainPoints:      []string{"Missed calls", "Double bookings"},
		BuyingCommittee: []string{"Rob (Owner)", "Sarah (Ops)"},
		SalesPlan:       model.StringList{"Demo dispatch board", "Clarify pricing"},
		FollowUpEmail:   "<p>Hi Rob, great talking today.</p>",
		MorganAction:    "Promised a summary",
		TeamAction:      "Schedule a demo",
	}
}

func sampleReport(lead *model.LeadRecord) *Report {
	return &Report{
		ReportID: "report-1",
		Session: model.ConversationSession{
			ID:           "c-abc123",
			Transcript:   "user: Hi, I'm Rob from Acme HVAC",
			RecordingURL: "https://example.com/rec.mp4",
		},
		Lead:        lead,
		Complete:    true,
		GeneratedAt: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

// failingSink always errors, for isolation tests.
type failingSink struct{ name model.SinkName }

func (f *failingSink) Name() model.SinkName { return f.name }

func (f *failingSink) Deliver(ctx context.Context, rep *Report) error {
	return eris.New("delivery exploded")
}
