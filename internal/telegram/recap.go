package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SendDailyRecap messages every user who saved transactions today a
// per-type count and total. Wired to the cron scheduler in main; the
// audit log is the source of truth so restarts do not lose the day.
func (b *Bot) SendDailyRecap(ctx context.Context) error {
	if b.recorder == nil {
		return nil
	}
	events, err := b.recorder.Load()
	if err != nil {
		return fmt.Errorf("load audit log: %w", err)
	}

	type agg struct {
		count int
		total decimal.Decimal
	}
	today := b.now().UTC().Truncate(24 * time.Hour)
	perUser := make(map[int64]map[string]*agg)
	for _, ev := range events {
		if ev.Timestamp.UTC().Truncate(24 * time.Hour).Before(today) {
			continue
		}
		types, ok := perUser[ev.UserID]
		if !ok {
			types = make(map[string]*agg)
			perUser[ev.UserID] = types
		}
		a, ok := types[ev.Type]
		if !ok {
			a = &agg{}
			types[ev.Type] = a
		}
		a.count++
		if ev.Amount != "" {
			if amt, err := decimal.NewFromString(ev.Amount); err == nil {
				a.total = a.total.Add(amt)
			}
		}
	}

	for userID, types := range perUser {
		if err := ctx.Err(); err != nil {
			return err
		}
		var sb strings.Builder
		sb.WriteString("📊 <b>Today's recap</b>\n")
		for _, t := range []string{"sale", "purchase", "expense", "income", "unknown"} {
			a, ok := types[t]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("• %s: %d", t, a.count))
			if !a.total.IsZero() {
				sb.WriteString(" (total " + a.total.String() + ")")
			}
			sb.WriteString("\n")
		}
		// Private chats share the user's id as chat id.
		b.sendMessage(userID, sb.String())
	}
	return nil
}
