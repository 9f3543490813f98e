package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatbot/internal/nlp"
	"catatbot/internal/session"
)

const helpText = `📖 <b>How to use this bot</b>

<b>🗒️ Input</b> — enter input mode, then type transactions naturally:
• <code>Laptop Asus terjual 2 unit seharga 15jt</code>
• <code>Beli kertas A4 5 rim harga 250rb</code>
Amounts understand jt/juta (millions) and rb/ribu (thousands).
Add a note with <code>catatan: ...</code> at the end.

<b>📝 Header</b> — view, add, rename or delete sheet columns.
The <code>timestamp</code> column is fixed and cannot be changed.
<b>📒 Sheets</b> — pick which worksheet to write to.
<b>🗃️ Spreadsheet</b> — show or switch the active spreadsheet and
view the most recent entries.

/reset returns you to the main menu from anywhere.`

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if !b.isAllowed(msg.From.ID) {
		log.Printf("unauthorized access attempt by user ID: %d (@%s)", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "Sorry, this bot is private.")
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	if b.handleMenuButton(ctx, msg) {
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID
	switch msg.Command() {
	case "start":
		if _, err := b.sessions.Reset(userID); err != nil {
			log.Printf("reset on /start for %d failed: %v", userID, err)
		}
		b.sendWithKeyboard(msg.Chat.ID,
			"🤖 <b>Welcome!</b>\n\nI log your transactions to Google Sheets. Pick an option from the menu below.",
			mainMenuKeyboard())
	case "reset":
		if _, err := b.sessions.Reset(userID); err != nil {
			log.Printf("reset for %d failed: %v", userID, err)
			b.sendMessage(msg.Chat.ID, "Could not save your session. Please try again.")
			return
		}
		b.sendWithKeyboard(msg.Chat.ID, "🔄 Session reset. You are back at the main menu.", mainMenuKeyboard())
	case "help":
		b.sendMessage(msg.Chat.ID, helpText)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Use /start to show the menu.")
	}
}

// handleMenuButton reacts to the main-menu reply keyboard. Returns false
// when the text is not a menu button so it can flow to handleText.
func (b *Bot) handleMenuButton(ctx context.Context, msg *tgbotapi.Message) bool {
	userID, chatID := msg.From.ID, msg.Chat.ID
	switch strings.TrimSpace(msg.Text) {
	case btnHelp:
		b.sendMessage(chatID, helpText)
	case btnInput:
		b.startInputMode(ctx, userID, chatID)
	case btnHeader:
		b.startHeaderConfig(ctx, userID, chatID)
	case btnSheets:
		b.startSheetSelect(ctx, userID, chatID)
	case btnSpreadsheet:
		b.startSpreadsheetInfo(userID, chatID)
	default:
		return false
	}
	return true
}

func (b *Bot) startInputMode(ctx context.Context, userID, chatID int64) {
	if !b.transitionOrReply(userID, chatID, session.ModeInput) {
		return
	}
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := b.sheetsCli.EnsureHeader(cctx, spreadsheetID, sheetName, headerRow()); err != nil {
		log.Printf("ensure header on %q failed: %v", sheetName, err)
	}
	b.sendWithKeyboard(chatID,
		fmt.Sprintf("✅ <b>Input mode active</b> on sheet <b>%s</b>.\n\nType your entries, one message each.", html.EscapeString(sheetName)),
		stopInputKeyboard())
}

func (b *Bot) startHeaderConfig(ctx context.Context, userID, chatID int64) {
	if !b.transitionOrReply(userID, chatID, session.ModeHeaderConfig) {
		return
	}
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	headers, err := b.sheetsCli.Headers(cctx, spreadsheetID, sheetName)
	if err != nil {
		log.Printf("get headers for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not reach the sheet. Please try again.")
		_, _ = b.sessions.Reset(userID)
		return
	}
	text := fmt.Sprintf("📝 <b>Headers in '%s'</b>", html.EscapeString(sheetName))
	if len(headers) > 0 {
		text += ":\n• " + html.EscapeString(strings.Join(headers, "\n• "))
	} else {
		text += ": none yet."
	}
	b.sendWithKeyboard(chatID, text, headerMenuKeyboard(headers))
}

func (b *Bot) startSheetSelect(ctx context.Context, userID, chatID int64) {
	if !b.transitionOrReply(userID, chatID, session.ModeSheetSelect) {
		return
	}
	spreadsheetID, _ := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	titles, err := b.sheetsCli.ListSheets(cctx, spreadsheetID)
	if err != nil {
		log.Printf("list sheets for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not reach the spreadsheet. Please try again.")
		_, _ = b.sessions.Reset(userID)
		return
	}
	b.sendWithKeyboard(chatID, "📒 Pick the worksheet to write to:", sheetPickKeyboard(titles))
}

func (b *Bot) startSpreadsheetInfo(userID, chatID int64) {
	if !b.transitionOrReply(userID, chatID, session.ModeSpreadsheetInfo) {
		return
	}
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	b.sendWithKeyboard(chatID,
		fmt.Sprintf("🗃️ <b>Active spreadsheet</b>\nID: <code>%s</code>\nSheet: <b>%s</b>\n\nSend a spreadsheet ID to switch, or cancel.",
			html.EscapeString(spreadsheetID), html.EscapeString(sheetName)),
		spreadsheetInfoKeyboard())
}

// handleText routes free text by the user's current mode. Only
// input_active feeds the extraction pipeline; this is what keeps stray
// chat messages out of the spreadsheet.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	st := b.sessions.Get(userID)
	switch st.Mode {
	case session.ModeInput:
		b.processTransaction(ctx, msg)
	case session.ModeHeaderConfig:
		b.handleHeaderInput(ctx, msg, st)
	case session.ModeSheetSelect:
		b.handleSheetInput(ctx, msg)
	case session.ModeSpreadsheetInfo:
		b.handleSpreadsheetInput(msg)
	default:
		b.sendMessage(msg.Chat.ID, "💡 Use the menu buttons, or press 🗒️ Input before typing a transaction.")
	}
}

func (b *Bot) handleHeaderInput(ctx context.Context, msg *tgbotapi.Message, st session.State) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	name := strings.TrimSpace(msg.Text)
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	switch {
	case st.Pending == pendingHeaderAdd:
		if err := b.sheetsCli.AddHeader(cctx, spreadsheetID, sheetName, name); err != nil {
			log.Printf("add header for %d failed: %v", userID, err)
			b.sendMessage(chatID, "Could not add the header. Please try again.")
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("✅ Header <b>%s</b> added.", html.EscapeString(name)))
	case strings.HasPrefix(st.Pending, pendingHeaderRename):
		oldName := strings.TrimPrefix(st.Pending, pendingHeaderRename)
		if err := b.sheetsCli.RenameHeader(cctx, spreadsheetID, sheetName, oldName, name); err != nil {
			log.Printf("rename header for %d failed: %v", userID, err)
			b.sendMessage(chatID, "Could not rename the header. Please try again.")
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("✅ Header <b>%s</b> renamed to <b>%s</b>.",
			html.EscapeString(oldName), html.EscapeString(name)))
	default:
		b.sendMessage(chatID, "Use the buttons above to pick a header action, or cancel.")
		return
	}
	if _, err := b.sessions.Reset(userID); err != nil {
		log.Printf("reset after header action for %d failed: %v", userID, err)
	}
}

func (b *Bot) handleSheetInput(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	title := strings.TrimSpace(msg.Text)
	spreadsheetID, _ := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	titles, err := b.sheetsCli.ListSheets(cctx, spreadsheetID)
	if err != nil {
		log.Printf("list sheets for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not reach the spreadsheet. Please try again.")
		return
	}
	for _, t := range titles {
		if t == title {
			b.activateSheet(userID, chatID, title)
			return
		}
	}
	b.sendMessage(chatID, fmt.Sprintf("No worksheet named <b>%s</b>. Pick one from the list or cancel.", html.EscapeString(title)))
}

func (b *Bot) handleSpreadsheetInput(msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	id := strings.TrimSpace(msg.Text)
	if id == "" || strings.ContainsAny(id, " \t\n") {
		b.sendMessage(chatID, "That does not look like a spreadsheet ID. Try again or cancel.")
		return
	}
	if _, err := b.sessions.Update(userID, func(st *session.State) {
		st.SpreadsheetID = id
		st.Mode = session.ModeIdle
		st.Pending = ""
	}); err != nil {
		log.Printf("switch spreadsheet for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not save your session. Please try again.")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Active spreadsheet switched to <code>%s</code>.", html.EscapeString(id)))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	userID, chatID := cb.From.ID, cb.Message.Chat.ID
	if !b.isAllowed(userID) {
		return
	}
	data := cb.Data
	// Header buttons outlive the flow that posted them; a press after the
	// session left header_config must not plant a stray Pending.
	if data == cbHeaderAdd || data == cbHeaderDeleteMenu ||
		strings.HasPrefix(data, cbHeaderRename) || strings.HasPrefix(data, cbHeaderDelete) {
		if b.sessions.Get(userID).Mode != session.ModeHeaderConfig {
			b.answerCallback(cb, "That menu is no longer active.")
			return
		}
	}
	switch {
	case data == cbStopInput:
		if _, err := b.sessions.Reset(userID); err != nil {
			log.Printf("stop input for %d failed: %v", userID, err)
			b.sendMessage(chatID, "Could not save your session. Please try again.")
			return
		}
		b.answerCallback(cb, "Input mode stopped.")
		b.sendWithKeyboard(chatID, "🛑 Input mode stopped. You are back at the main menu.", mainMenuKeyboard())
	case data == cbCancel:
		if _, err := b.sessions.Reset(userID); err != nil {
			log.Printf("cancel for %d failed: %v", userID, err)
			b.sendMessage(chatID, "Could not save your session. Please try again.")
			return
		}
		b.answerCallback(cb, "Cancelled.")
		b.sendWithKeyboard(chatID, "❌ Action cancelled.", mainMenuKeyboard())
	case data == cbHeaderAdd:
		if _, err := b.sessions.Update(userID, func(st *session.State) {
			st.Pending = pendingHeaderAdd
		}); err != nil {
			b.sendMessage(chatID, "Could not save your session. Please try again.")
			return
		}
		b.answerCallback(cb, "")
		b.sendWithKeyboard(chatID, "Type the name for the new header column:", cancelKeyboard())
	case strings.HasPrefix(data, cbHeaderRename):
		oldName := strings.TrimPrefix(data, cbHeaderRename)
		if _, err := b.sessions.Update(userID, func(st *session.State) {
			st.Pending = pendingHeaderRename + oldName
		}); err != nil {
			b.sendMessage(chatID, "Could not save your session. Please try again.")
			return
		}
		b.answerCallback(cb, "")
		b.sendWithKeyboard(chatID, fmt.Sprintf("What is the new name for <b>%s</b>?", html.EscapeString(oldName)), cancelKeyboard())
	case data == cbHeaderDeleteMenu:
		b.showHeaderDeleteMenu(ctx, cb, userID, chatID)
	case strings.HasPrefix(data, cbHeaderDelete):
		b.deleteHeader(ctx, cb, userID, chatID, strings.TrimPrefix(data, cbHeaderDelete))
	case strings.HasPrefix(data, cbSheetPick):
		b.answerCallback(cb, "")
		b.activateSheet(userID, chatID, strings.TrimPrefix(data, cbSheetPick))
	case data == cbRecent:
		b.answerCallback(cb, "")
		b.showRecentEntries(ctx, userID, chatID)
	}
}

func (b *Bot) showHeaderDeleteMenu(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, chatID int64) {
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	headers, err := b.sheetsCli.Headers(cctx, spreadsheetID, sheetName)
	if err != nil {
		log.Printf("get headers for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not reach the sheet. Please try again.")
		return
	}
	if len(editableHeaders(headers)) == 0 {
		b.answerCallback(cb, "No headers can be deleted.")
		return
	}
	b.answerCallback(cb, "")
	b.sendWithKeyboard(chatID, "🗑️ Pick the header to delete. Its whole column goes with it.", headerDeleteKeyboard(headers))
}

func (b *Bot) deleteHeader(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, chatID int64, name string) {
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := b.sheetsCli.DeleteHeader(cctx, spreadsheetID, sheetName, name); err != nil {
		log.Printf("delete header for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not delete the header. Please try again.")
		return
	}
	b.answerCallback(cb, "Header deleted.")
	b.sendMessage(chatID, fmt.Sprintf("✅ Header <b>%s</b> and its column deleted.", html.EscapeString(name)))
	if _, err := b.sessions.Reset(userID); err != nil {
		log.Printf("reset after header delete for %d failed: %v", userID, err)
	}
}

const recentRowsLimit = 5

// showRecentEntries is a read-only view: it works from any mode and
// leaves the session untouched.
func (b *Bot) showRecentEntries(ctx context.Context, userID, chatID int64) {
	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	rows, err := b.sheetsCli.RecentRows(cctx, spreadsheetID, sheetName, recentRowsLimit)
	if err != nil {
		log.Printf("recent rows for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not reach the sheet. Please try again.")
		return
	}
	if len(rows) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("No entries in <b>%s</b> yet.", html.EscapeString(sheetName)))
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📄 <b>Last %d entries in '%s'</b>\n", len(rows), html.EscapeString(sheetName)))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("\n#%d: %s", r.Number, html.EscapeString(strings.Join(r.Cells, " | "))))
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) activateSheet(userID, chatID int64, title string) {
	if _, err := b.sessions.Update(userID, func(st *session.State) {
		st.SheetName = title
		st.Mode = session.ModeIdle
		st.Pending = ""
	}); err != nil {
		log.Printf("activate sheet for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not save your session. Please try again.")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Now writing to worksheet <b>%s</b>.", html.EscapeString(title)))
}

// transitionOrReply attempts a mode change and translates failures into
// user guidance. Returns true when the transition happened.
func (b *Bot) transitionOrReply(userID, chatID int64, to session.Mode) bool {
	_, err := b.sessions.Transition(userID, to)
	switch {
	case err == nil:
		return true
	case errors.Is(err, session.ErrInvalidTransition):
		b.sendMessage(chatID, "Finish or cancel the current action first (/reset always works).")
	case errors.Is(err, session.ErrStoreIO):
		log.Printf("transition for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not save your session. Please try again.")
	default:
		log.Printf("transition for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Something went wrong. Please try again.")
	}
	return false
}

// Pending sub-steps of the header flow.
const (
	pendingHeaderAdd    = "header:add"
	pendingHeaderRename = "header:rename:"
)

func headerRow() []string { return nlp.Header }
