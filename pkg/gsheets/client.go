// Package gsheets appends rows to a Google Sheet using service-account
// credentials.
package gsheets

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Appender writes rows to a fixed worksheet range.
type Appender interface {
	AppendRow(ctx context.Context, row []any) error
}

// Config holds service-account credentials and the target sheet.
type Config struct {
	ClientEmail   string
	PrivateKey    string // PEM, with real newlines
	SpreadsheetID string
	Range         string // e.g. "Leads!A:R"
}

type sheetsAppender struct {
	svc           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// New creates an Appender authenticated via a two-legged JWT flow.
func New(ctx context.Context, cfg Config) (Appender, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, eris.New("gsheets: service account credentials are required")
	}
	if cfg.SpreadsheetID == "" {
		return nil, eris.New("gsheets: spreadsheet ID is required")
	}

	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: create service")
	}

	return &sheetsAppender{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.Range,
	}, nil
}

// NewWithService wraps an existing sheets.Service. Used by tests.
func NewWithService(svc *sheets.Service, spreadsheetID, writeRange string) Appender {
	return &sheetsAppender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
	}
}

func (a *sheetsAppender) AppendRow(ctx context.Context, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}

	_, err := a.svc.Spreadsheets.Values.
		Append(a.spreadsheetID, a.writeRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return eris.Wrap(err, "gsheets: append row")
	}
	return nil
}
