// Package google appends the backup journal to a Google Sheets spreadsheet
// using Service Account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Adnan1921/radnja-tracker/internal/backup"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	journalSheet  string
}

var _ backup.JournalWriter = (*Client)(nil)

// NewFromEnv creates a journal client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus Service Account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Prodaja").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	journalSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if journalSheet == "" {
		journalSheet = "Prodaja"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		journalSheet:  journalSheet,
	}, nil
}

// newSheetsService builds the Sheets client from service-account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendSale writes one sale as a journal row.
func (c *Client) AppendSale(ctx context.Context, s core.Sale) error {
	row := []any{
		s.ID, s.Date, s.Time, s.ItemName, s.Quantity,
		kmString(s.UnitPrice), kmString(s.Total),
		string(s.PaymentMethod), s.RecordedBy, "",
	}
	if err := c.appendRow(ctx, row); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Sale appended to backup journal",
		applog.FieldSaleID, s.ID,
		applog.FieldSaleDate, s.Date,
		"sheet", c.journalSheet)
	return nil
}

// AppendReversal writes a negative row for a deleted sale so journal totals
// stay consistent without rewriting history.
func (c *Client) AppendReversal(ctx context.Context, r backup.Reversal) error {
	row := []any{
		r.SaleID, r.Date, "", r.ItemName, "",
		"", kmString(r.Total.Neg()),
		"", r.RecordedBy, "STORNO",
	}
	if err := c.appendRow(ctx, row); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Reversal appended to backup journal",
		applog.FieldSaleID, r.SaleID,
		"sheet", c.journalSheet)
	return nil
}

func (c *Client) appendRow(ctx context.Context, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:J", c.journalSheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.journalSheet, err)
	}
	return nil
}

func kmString(m core.Money) string {
	return strconv.FormatFloat(m.KM(), 'f', 2, 64)
}
