package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatbot/internal/sheets"
)

// Main menu reply-keyboard buttons.
const (
	btnHelp        = "🆘 Help"
	btnInput       = "🗒️ Input"
	btnHeader      = "📝 Header"
	btnSheets      = "📒 Sheets"
	btnSpreadsheet = "🗃️ Spreadsheet"
)

// Inline callback payloads.
const (
	cbStopInput        = "stop_input"
	cbCancel           = "cancel_action"
	cbHeaderAdd        = "header_add"
	cbHeaderRename     = "header_rename:" // + header name
	cbHeaderDeleteMenu = "header_delete_menu"
	cbHeaderDelete     = "header_delete:" // + header name
	cbSheetPick        = "sheet_pick:"    // + sheet title
	cbRecent           = "view_recent"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHelp),
			tgbotapi.NewKeyboardButton(btnInput),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHeader),
			tgbotapi.NewKeyboardButton(btnSheets),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSpreadsheet),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func stopInputKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛑 Stop input mode", cbStopInput),
		),
	)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
		),
	)
}

func headerMenuKeyboard(headers []string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add header", cbHeaderAdd),
		),
	}
	for _, h := range editableHeaders(headers) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename "+h, cbHeaderRename+h),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete header", cbHeaderDeleteMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func headerDeleteKeyboard(headers []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, h := range editableHeaders(headers) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ "+h, cbHeaderDelete+h),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func spreadsheetInfoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Recent entries", cbRecent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
		),
	)
}

// editableHeaders drops the mandatory column from a header list; it can
// be neither renamed nor deleted.
func editableHeaders(headers []string) []string {
	var out []string
	for _, h := range headers {
		if strings.EqualFold(h, sheets.MandatoryHeader) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func sheetPickKeyboard(titles []string) tgbotapi.InlineKeyboardMarkup {
	var btns [][]tgbotapi.InlineKeyboardButton
	for _, t := range titles {
		btns = append(btns, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📒 "+t, cbSheetPick+t),
		))
	}
	btns = append(btns, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(btns...)
}
