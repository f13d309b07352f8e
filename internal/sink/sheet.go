package sink

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/pkg/gsheets"
)

// SheetSink appends one row per session to the lead spreadsheet. Sessions
// whose analysis was skipped still get a placeholder row so the sheet
// remains a complete session log.
type SheetSink struct {
	appender gsheets.Appender
}

func NewSheetSink(appender gsheets.Appender) *SheetSink {
	return &SheetSink{appender: appender}
}

func (s *SheetSink) Name() model.SinkName { return model.SinkSheet }

func (s *SheetSink) Deliver(ctx context.Context, rep *Report) error {
	if err := s.appender.AppendRow(ctx, leadRow(rep)); err != nil {
		return eris.Wrap(err, "sheet sink: append row")
	}
	return nil
}

// leadRow lays the report out across the A:R columns. List fields are
// flattened: pain points and committee comma-joined, the sales plan
// newline-joined so the cell reads as a checklist.
func leadRow(rep *Report) []any {
	ts := rep.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	if rep.Lead == nil {
		return []any{
			ts.Format(time.RFC3339),
			rep.Session.ID,
			"Unknown (Short/Failed)",
			"", "", "", "", "", "", "", "", "", "", "", "", "", "",
			rep.Session.RecordingURL,
		}
	}

	lead := rep.Lead
	return []any{
		ts.Format(time.RFC3339),
		rep.Session.ID,
		model.OrDefault(lead.LeadName, model.NotProvided),
		model.OrDefault(lead.Role, model.NotProvided),
		model.OrDefault(lead.CompanyName, model.NotProvided),
		model.OrDefault(lead.LeadEmail, model.NotProvided),
		model.OrDefault(lead.LeadPhone, model.NotProvided),
		model.OrDefault(lead.Vertical, model.NotProvided),
		model.OrDefault(lead.TeamSize, model.NotProvided),
		model.OrDefault(lead.Geography, model.NotProvided),
		model.OrDefault(lead.CurrentSystems, "Not mentioned"),
		model.OrDefault(lead.BudgetRange, "Not discussed"),
		model.OrDefault(lead.Timeline, "Not discussed"),
		model.OrDefault(model.StringList(lead.PainPoints).Join(", "), "Not mentioned"),
		model.OrDefault(model.StringList(lead.BuyingCommittee).Join(", "), "Not mentioned"),
		lead.SalesPlan.Join("\n"),
		strconv.Itoa(lead.ViabilityScore()),
		rep.Session.RecordingURL,
	}
}
