package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatbot/internal/audit"
	"catatbot/internal/nlp"
)

// processTransaction runs one input-mode message through the extraction
// pipeline and appends the result to the user's active sheet. Extraction
// itself cannot fail the process; only the sheet append touches the
// network and it runs under the configured timeout.
func (b *Bot) processTransaction(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	fields := b.parser.Extract(msg.Text)
	rec, err := nlp.Build(fields, b.now())
	if err != nil {
		if errors.Is(err, nlp.ErrEmptyItem) {
			b.sendMessage(chatID,
				"I could not find an item name in that message. Please resend it with the item included, e.g. <code>Laptop Asus terjual 2 unit seharga 15jt</code>.")
			return
		}
		log.Printf("build record for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Something went wrong. Please try again.")
		return
	}

	spreadsheetID, sheetName := b.sessions.SheetInfo(userID)
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := b.sheetsCli.AppendRow(cctx, spreadsheetID, sheetName, rec.Row()); err != nil {
		log.Printf("append row for %d failed: %v", userID, err)
		b.sendMessage(chatID, "Could not save to the sheet. Please try again.")
		return
	}

	if b.recorder != nil {
		if err := b.recorder.Append(auditEvent(userID, spreadsheetID, sheetName, rec)); err != nil {
			log.Printf("audit append for %d failed: %v", userID, err)
		}
	}

	b.sendWithKeyboard(chatID, confirmationText(rec, sheetName), stopInputKeyboard())
}

func auditEvent(userID int64, spreadsheetID, sheetName string, rec nlp.Record) audit.Event {
	ev := audit.Event{
		Timestamp:     rec.Timestamp,
		UserID:        userID,
		SpreadsheetID: spreadsheetID,
		SheetName:     sheetName,
		Item:          rec.ItemName,
		Unit:          rec.Unit,
		Type:          string(rec.Type),
		Note:          rec.Note,
	}
	if rec.Quantity.Valid {
		ev.Quantity = rec.Quantity.Decimal.String()
	}
	if rec.Amount.Valid {
		ev.Amount = rec.Amount.Decimal.String()
	}
	return ev
}

func confirmationText(rec nlp.Record, sheetName string) string {
	var sb strings.Builder
	sb.WriteString("✅ <b>Saved!</b>\n\n")
	sb.WriteString("• Item: <b>" + html.EscapeString(rec.ItemName) + "</b>\n")
	if rec.Quantity.Valid {
		sb.WriteString(fmt.Sprintf("• Quantity: %s %s\n", rec.Quantity.Decimal.String(), rec.Unit))
	}
	if rec.Amount.Valid {
		sb.WriteString("• Amount: " + rec.Amount.Decimal.String() + "\n")
	}
	sb.WriteString("• Type: " + string(rec.Type) + "\n")
	if rec.Note != "" {
		sb.WriteString("• Note: " + html.EscapeString(rec.Note) + "\n")
	}
	sb.WriteString("\n📊 Sheet: <b>" + html.EscapeString(sheetName) + "</b>")
	return sb.String()
}
