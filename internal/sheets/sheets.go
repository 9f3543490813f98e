package sheets

import "context"

// MandatoryHeader is the one column every managed sheet must keep; it
// can be neither renamed nor deleted.
const MandatoryHeader = "timestamp"

// Row is one data row with its 1-based position in the sheet.
type Row struct {
	Number int
	Cells  []string
}

// Client is the spreadsheet collaborator the bot talks to. All calls hit
// the network; callers apply their own timeout via ctx.
type Client interface {
	// AppendRow appends one row after the last non-empty row.
	AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []interface{}) error
	// Headers returns the first row of the sheet.
	Headers(ctx context.Context, spreadsheetID, sheetName string) ([]string, error)
	// EnsureHeader writes header into row 1 when the sheet has none.
	EnsureHeader(ctx context.Context, spreadsheetID, sheetName string, header []string) error
	// AddHeader appends a new column header after the existing ones.
	AddHeader(ctx context.Context, spreadsheetID, sheetName, name string) error
	// RenameHeader renames an existing column header in place.
	RenameHeader(ctx context.Context, spreadsheetID, sheetName, oldName, newName string) error
	// DeleteHeader removes a header and its whole column.
	DeleteHeader(ctx context.Context, spreadsheetID, sheetName, name string) error
	// ListSheets returns the worksheet titles of a spreadsheet.
	ListSheets(ctx context.Context, spreadsheetID string) ([]string, error)
	// RecentRows returns up to limit trailing data rows (header excluded).
	RecentRows(ctx context.Context, spreadsheetID, sheetName string, limit int) ([]Row, error)
}
