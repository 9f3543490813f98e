package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Service implements Client against the Google Sheets v4 API using a
// service-account credentials file.
type Service struct {
	svc *gsheets.Service
}

func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Service{svc: svc}, nil
}

func (s *Service) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.
		Append(spreadsheetID, rangeFor(sheetName, "A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (s *Service) Headers(ctx context.Context, spreadsheetID, sheetName string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(spreadsheetID, rangeFor(sheetName, "1:1")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get headers: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (s *Service) EnsureHeader(ctx context.Context, spreadsheetID, sheetName string, header []string) error {
	existing, err := s.Headers(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err = s.svc.Spreadsheets.Values.
		Update(spreadsheetID, rangeFor(sheetName, "A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (s *Service) AddHeader(ctx context.Context, spreadsheetID, sheetName, name string) error {
	headers, err := s.Headers(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	return s.setHeaderCell(ctx, spreadsheetID, sheetName, len(headers), name)
}

func (s *Service) RenameHeader(ctx context.Context, spreadsheetID, sheetName, oldName, newName string) error {
	if strings.EqualFold(oldName, MandatoryHeader) {
		return fmt.Errorf("header %q cannot be renamed", oldName)
	}
	headers, err := s.Headers(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	for i, h := range headers {
		if h == oldName {
			return s.setHeaderCell(ctx, spreadsheetID, sheetName, i, newName)
		}
	}
	return fmt.Errorf("header %q not found", oldName)
}

func (s *Service) DeleteHeader(ctx context.Context, spreadsheetID, sheetName, name string) error {
	if strings.EqualFold(name, MandatoryHeader) {
		return fmt.Errorf("header %q cannot be deleted", name)
	}
	headers, err := s.Headers(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	col := -1
	for i, h := range headers {
		if h == name {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("header %q not found", name)
	}
	id, err := s.sheetID(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    id,
					Dimension:  "COLUMNS",
					StartIndex: int64(col),
					EndIndex:   int64(col + 1),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete header column: %w", err)
	}
	return nil
}

func (s *Service) ListSheets(ctx context.Context, spreadsheetID string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.
		Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (s *Service) RecentRows(ctx context.Context, spreadsheetID, sheetName string, limit int) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(spreadsheetID, rangeFor(sheetName, "")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}
	return tailRows(resp.Values, limit), nil
}

// tailRows keeps the last limit data rows of a value grid, skipping the
// header row and preserving 1-based sheet row numbers.
func tailRows(values [][]interface{}, limit int) []Row {
	if len(values) <= 1 || limit <= 0 {
		return nil
	}
	data := values[1:]
	start := 0
	if len(data) > limit {
		start = len(data) - limit
	}
	var rows []Row
	for i := start; i < len(data); i++ {
		rows = append(rows, Row{
			Number: i + 2, // 1-based, after the header row
			Cells:  toStrings(data[i]),
		})
	}
	return rows
}

// sheetID resolves a worksheet title to its numeric id.
func (s *Service) sheetID(ctx context.Context, spreadsheetID, sheetName string) (int64, error) {
	resp, err := s.svc.Spreadsheets.
		Get(spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", sheetName)
}

func (s *Service) setHeaderCell(ctx context.Context, spreadsheetID, sheetName string, col int, value string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.
		Update(spreadsheetID, rangeFor(sheetName, columnName(col)+"1"), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update header cell: %w", err)
	}
	return nil
}

// rangeFor builds an A1-notation range with the sheet name quoted.
func rangeFor(sheetName, ref string) string {
	if ref == "" {
		return "'" + sheetName + "'"
	}
	return "'" + sheetName + "'!" + ref
}

// columnName converts a zero-based column index to its A1 letter(s).
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}
