package audit

import "time"

// Event is one transaction that was successfully appended to a sheet.
// It is intentionally flat so future DB implementations stay trivial;
// events are appended in chronological order.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	UserID        int64     `json:"user_id"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	SheetName     string    `json:"sheet_name"`
	Item          string    `json:"item"`
	Quantity      string    `json:"quantity,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Type          string    `json:"type"`
	Note          string    `json:"note,omitempty"`
}

// Recorder abstracts persistence of saved-transaction events.
// Append must be atomic per event; Load returns events in order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Append(event Event) error
	Load() ([]Event, error)
}
