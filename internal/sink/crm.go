package sink

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aifusionlabs/morgan/internal/model"
	"github.com/aifusionlabs/morgan/pkg/salesforce"
)

// CRMSink creates a Salesforce Lead for real extracted contacts. It is
// deliberately conservative: no lead name, or a fallback record, means
// nothing worth a CRM entry, so those sessions are skipped rather than
// polluting the pipeline with junk leads.
type CRMSink struct {
	client salesforce.Client
}

func NewCRMSink(client salesforce.Client) *CRMSink {
	return &CRMSink{client: client}
}

func (s *CRMSink) Name() model.SinkName { return model.SinkCRM }

func (s *CRMSink) Deliver(ctx context.Context, rep *Report) error {
	if rep.Lead == nil || rep.Lead.Fallback {
		zap.L().Info("crm sink: no extracted lead, skipping",
			zap.String("conversation_id", rep.Session.ID))
		return nil
	}
	lead := rep.Lead

	name := model.CleanField(lead.LeadName)
	if name == "" {
		zap.L().Info("crm sink: lead has no name, skipping",
			zap.String("conversation_id", rep.Session.ID))
		return nil
	}

	id, err := s.client.InsertLead(ctx, leadFields(name, lead))
	if err != nil {
		return eris.Wrap(err, "crm sink: insert lead")
	}

	zap.L().Info("crm sink: lead created",
		zap.String("conversation_id", rep.Session.ID),
		zap.String("salesforce_id", id))
	return nil
}

// leadFields maps the record onto standard Lead object fields. Placeholder
// values are dropped entirely so Salesforce shows blanks, not "Unknown".
func leadFields(name string, lead *model.LeadRecord) map[string]any {
	first, last := splitName(name)

	fields := map[string]any{
		"FirstName":  first,
		"LastName":   last,
		"Company":    model.OrDefault(model.CleanField(lead.CompanyName), "Unknown Company"),
		"Industry":   model.OrDefault(model.CleanField(lead.Vertical), "Field Service"),
		"LeadSource": "Morgan AI Agent",
	}

	if v := model.CleanField(lead.LeadEmail); v != "" {
		fields["Email"] = v
	}
	if v := model.CleanField(lead.LeadPhone); v != "" {
		fields["Phone"] = v
	}
	if v := model.CleanField(lead.Role); v != "" {
		fields["Title"] = v
	}
	if v := model.CleanField(lead.Geography); v != "" {
		fields["City"] = v
	}
	if n, ok := parseTeamSize(lead.TeamSize); ok {
		fields["NumberOfEmployees"] = n
	}
	if desc := buildDescription(lead); desc != "" {
		fields["Description"] = desc
	}

	return fields
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Unknown", "Lead"
	}
	if len(parts) == 1 {
		return parts[0], "Lead"
	}
	return parts[0], strings.Join(parts[1:], " ")
}

var digitRun = regexp.MustCompile(`\d+`)

// parseTeamSize pulls the first number out of a free-text size such as
// "15 techs" or "about 40 in the field".
func parseTeamSize(teamSize string) (int, bool) {
	m := digitRun.FindString(model.CleanField(teamSize))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func buildDescription(lead *model.LeadRecord) string {
	var parts []string

	if v := model.CleanField(lead.BudgetRange); v != "" {
		parts = append(parts, "Budget: "+v)
	}
	if v := model.CleanField(lead.Timeline); v != "" {
		parts = append(parts, "Timeline: "+v)
	}
	if v := model.CleanField(lead.CurrentSystems); v != "" {
		parts = append(parts, "Current Systems: "+v)
	}
	if v := model.StringList(lead.PainPoints).Join(", "); v != "" {
		parts = append(parts, "Pain Points: "+v)
	}
	if v := lead.SalesPlan.Join("\n"); v != "" {
		parts = append(parts, "\nSales Plan:\n"+v)
	}

	if len(parts) == 0 {
		return "Lead captured from Morgan AI conversation."
	}
	return strings.Join(parts, "\n")
}
