package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusionlabs/morgan/internal/config"
	"github.com/aifusionlabs/morgan/internal/model"
)

func TestDispatchSettlesAllSinks(t *testing.T) {
	t.Parallel()

	appender := &fakeAppender{}
	results := Dispatch(context.Background(), sampleReport(sampleLead()),
		&failingSink{name: model.SinkEmail},
		NewSheetSink(appender),
	)

	require.Len(t, results, 2)
	assert.Equal(t, model.SinkEmail, results[0].Sink)
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "delivery exploded")

	assert.Equal(t, model.SinkSheet, results[1].Sink)
	assert.True(t, results[1].OK, "sheet sink must run despite email failure")
	assert.Len(t, appender.rows, 1)
}

func TestDispatchNoSinks(t *testing.T) {
	t.Parallel()

	results := Dispatch(context.Background(), sampleReport(sampleLead()))
	assert.Empty(t, results)
}

func TestDispatchAllSucceed(t *testing.T) {
	t.Parallel()

	mail := &fakeResend{}
	appender := &fakeAppender{}
	sf := &fakeSalesforce{}

	cfg := config.ResendConfig{
		From:            "Morgan AI <noreply@aifusionlabs.app>",
		SalesRecipients: []string{"sales@aifusionlabs.app"},
		InternalEmail:   "aifusionlabs@gmail.com",
	}

	results := Dispatch(context.Background(), sampleReport(sampleLead()),
		NewEmailSink(mail, cfg, true),
		NewSheetSink(appender),
		NewCRMSink(sf),
	)

	require.Len(t, results, 3)
	for _, res := range results {
		assert.True(t, res.OK, "sink %s", res.Sink)
		assert.Empty(t, res.Error)
	}
	assert.Equal(t, 1, mail.sentCount())
	assert.Len(t, appender.rows, 1)
	assert.Len(t, sf.inserts, 1)
}
