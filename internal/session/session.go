package session

import (
	"errors"
	"time"
)

// Mode is the conversational state a user is currently in. Only
// ModeInput routes free text into the extraction pipeline; the config
// modes interpret text as sub-commands of their flow.
type Mode string

const (
	ModeIdle            Mode = "idle"
	ModeInput           Mode = "input_active"
	ModeHeaderConfig    Mode = "header_config"
	ModeSheetSelect     Mode = "sheet_select"
	ModeSpreadsheetInfo Mode = "spreadsheet_info"
)

// ErrInvalidTransition is returned when a command asks for a mode change
// the transition table does not allow.
var ErrInvalidTransition = errors.New("invalid mode transition")

// State is one user's persisted conversational context.
type State struct {
	UserID        int64     `json:"user_id"`
	Mode          Mode      `json:"mode"`
	SpreadsheetID string    `json:"active_spreadsheet_id,omitempty"`
	SheetName     string    `json:"active_sheet_name,omitempty"`
	// Pending carries the sub-step of a config flow, e.g. "header:add"
	// or "header:rename:<old>". Cleared on every return to idle.
	Pending     string    `json:"pending,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// Default is the state a user has before their first interaction.
func Default(userID int64) State {
	return State{UserID: userID, Mode: ModeIdle}
}

// canTransition encodes the transition table: idle can enter any mode,
// every mode can return to idle (stop, cancel, reset), and a non-idle
// mode must go through idle before entering another one. Re-entering
// the current mode is allowed so a command retried after a failed
// flush still lands.
func canTransition(from, to Mode) bool {
	if to == ModeIdle || from == to {
		return true
	}
	return from == ModeIdle || from == ""
}
