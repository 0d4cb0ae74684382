package analytics

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var headerRow = []interface{}{
	"Timestamp", "User ID", "Username", "Action",
	"Bot Mode", "Details", "Source", "Session ID",
}

// SheetsSink appends events as rows of a Google spreadsheet.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetsSink(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsSink, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	s := &SheetsSink{svc: svc, spreadsheetID: spreadsheetID}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureHeader writes the column header row once, on first use of an
// empty sheet.
func (s *SheetsSink) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1:H1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 && resp.Values[0][0] == "Timestamp" {
		return nil
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, "A1:H1", &sheets.ValueRange{
		Values: [][]interface{}{headerRow},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

func (s *SheetsSink) Append(ctx context.Context, ev Event) error {
	row := []interface{}{
		ev.Timestamp.Format("2006-01-02 15:04:05"),
		ev.UserID,
		ev.Username,
		ev.Action,
		ev.Mode,
		ev.Details,
		ev.Source,
		ev.SessionID,
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, "A:H", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// Probe checks that the spreadsheet is reachable. Used once at startup;
// failure is reported but never aborts the process.
func (s *SheetsSink) Probe(ctx context.Context) error {
	if _, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return fmt.Errorf("probe spreadsheet: %w", err)
	}
	return nil
}
