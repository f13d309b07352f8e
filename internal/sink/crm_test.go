package sink

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusionlabs/morgan/internal/model"
)

func TestCRMSinkInsertsLead(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{}
	s := NewCRMSink(sf)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(sampleLead())))
	require.Len(t, sf.inserts, 1)

	fields := sf.inserts[0]
	assert.Equal(t, "Rob", fields["FirstName"])
	assert.Equal(t, "Jones", fields["LastName"])
	assert.Equal(t, "Acme HVAC", fields["Company"])
	assert.Equal(t, "rob@acmehvac.com", fields["Email"])
	assert.Equal(t, "Owner", fields["Title"])
	assert.Equal(t, "HVAC", fields["Industry"])
	assert.Equal(t, 15, fields["NumberOfEmployees"])
	assert.Equal(t, "Morgan AI Agent", fields["LeadSource"])
	assert.Contains(t, fields["Description"], "Budget: $4-5K/month")
	assert.Contains(t, fields["Description"], "Pain Points: Missed calls, Double bookings")
}

func TestCRMSinkSkipsNamelessLead(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{}
	s := NewCRMSink(sf)

	lead := sampleLead()
	lead.LeadName = "Unknown"

	require.NoError(t, s.Deliver(context.Background(), sampleReport(lead)))
	assert.Empty(t, sf.inserts)
}

func TestCRMSinkSkipsFallbackRecord(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{}
	s := NewCRMSink(sf)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(model.FallbackLead("x@y.com"))))
	assert.Empty(t, sf.inserts)
}

func TestCRMSinkSkipsNilLead(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{}
	s := NewCRMSink(sf)

	require.NoError(t, s.Deliver(context.Background(), sampleReport(nil)))
	assert.Empty(t, sf.inserts)
}

func TestCRMSinkDropsPlaceholderFields(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{}
	s := NewCRMSink(sf)

	lead := sampleLead()
	lead.LeadEmail = "Not Provided"
	lead.LeadPhone = "N/A"
	lead.Geography = "Unknown"
	lead.TeamSize = "a few"

	require.NoError(t, s.Deliver(context.Background(), sampleReport(lead)))
	require.Len(t, sf.inserts, 1)

	fields := sf.inserts[0]
	assert.NotContains(t, fields, "Email")
	assert.NotContains(t, fields, "Phone")
	assert.NotContains(t, fields, "City")
	assert.NotContains(t, fields, "NumberOfEmployees")
}

func TestCRMSinkInsertFailure(t *testing.T) {
	t.Parallel()

	sf := &fakeSalesforce{err: eris.New("INVALID_SESSION_ID")}
	s := NewCRMSink(sf)

	err := s.Deliver(context.Background(), sampleReport(sampleLead()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert lead")
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		first string
		last  string
	}{
		{"full_name", "Rob Jones", "Rob", "Jones"},
		{"three_parts", "Mary Jo Baker", "Mary", "Jo Baker"},
		{"single_name", "Rob", "Rob", "Lead"},
		{"empty", "", "Unknown", "Lead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first, last := splitName(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestParseTeamSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
		ok   bool
	}{
		{"plain_number", "15", 15, true},
		{"with_unit", "15 techs", 15, true},
		{"embedded", "about 40 in the field", 40, true},
		{"no_digits", "a few", 0, false},
		{"placeholder", "Unknown", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseTeamSize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
