package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatbot/internal/session"
	"catatbot/internal/sheets"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mc, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, mc.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeSheets struct {
	mu        sync.Mutex
	appended  [][]interface{}
	headers   []string
	titles    []string
	added     []string
	renamed   [][2]string
	deleted   []string
	recent    []sheets.Row
	appendErr error
}

func (f *fakeSheets) AppendRow(_ context.Context, _, _ string, row []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeSheets) Headers(context.Context, string, string) ([]string, error) {
	return f.headers, nil
}

func (f *fakeSheets) EnsureHeader(context.Context, string, string, []string) error { return nil }

func (f *fakeSheets) AddHeader(_ context.Context, _, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, name)
	return nil
}

func (f *fakeSheets) RenameHeader(_ context.Context, _, _, oldName, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renamed = append(f.renamed, [2]string{oldName, newName})
	return nil
}

func (f *fakeSheets) DeleteHeader(_ context.Context, _, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeSheets) ListSheets(context.Context, string) ([]string, error) {
	return f.titles, nil
}

func (f *fakeSheets) RecentRows(context.Context, string, string, int) ([]sheets.Row, error) {
	return f.recent, nil
}

func (f *fakeSheets) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func newTestBot(t *testing.T, fs *fakeSender, cli sheets.Client, allowed []int64) *Bot {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	mgr := session.NewManager(store, session.Defaults{SpreadsheetID: "default-id", SheetName: "Sheet1"})
	b := newBot(fs, mgr, cli, nil, allowed, "HTML", time.Second)
	b.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return b
}

func textMsg(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func commandMsg(userID int64, cmd string) *tgbotapi.Message {
	m := textMsg(userID, cmd)
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return m
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}
}

func TestIdleTextNeverAppends(t *testing.T) {
	fs := &fakeSender{}
	cli := &fakeSheets{}
	b := newTestBot(t, fs, cli, nil)

	b.handleIncomingMessage(context.Background(), textMsg(1, "Laptop Asus terjual 2 unit seharga 15jt"))

	if cli.appendCount() != 0 {
		t.Fatalf("idle text must never reach the sheet, got %d appends", cli.appendCount())
	}
	if !strings.Contains(fs.last(), "Input") {
		t.Fatalf("want guidance reply, got %q", fs.last())
	}
}

func TestUnauthorizedUserIsRefused(t *testing.T) {
	fs := &fakeSender{}
	cli := &fakeSheets{}
	b := newTestBot(t, fs, cli, []int64{1})

	b.handleIncomingMessage(context.Background(), textMsg(2, "hello"))

	if !strings.Contains(fs.last(), "private") {
		t.Fatalf("want refusal, got %q", fs.last())
	}
	if cli.appendCount() != 0 {
		t.Fatalf("unauthorized text must not be processed")
	}
}

func TestStartCommandShowsMenuAndResets(t *testing.T) {
	fs := &fakeSender{}
	b := newTestBot(t, fs, &fakeSheets{}, nil)

	if _, err := b.sessions.Transition(1, session.ModeInput); err != nil {
		t.Fatalf("transition: %v", err)
	}
	b.handleIncomingMessage(context.Background(), commandMsg(1, "/start"))

	if got := b.sessions.Get(1).Mode; got != session.ModeIdle {
		t.Fatalf("/start must reset to idle, got %s", got)
	}
	if !strings.Contains(fs.last(), "Welcome") {
		t.Fatalf("want welcome, got %q", fs.last())
	}
}

func TestDispatchDoesNotBlockOnFullQueue(t *testing.T) {
	fs := &fakeSender{}
	b := newTestBot(t, fs, &fakeSheets{}, nil)

	// A queue with no worker draining it, filled to capacity.
	q := make(chan tgbotapi.Update, 1)
	q <- tgbotapi.Update{}
	b.queues[7] = q

	done := make(chan struct{})
	go func() {
		b.dispatch(context.Background(), 7, tgbotapi.Update{Message: textMsg(7, "hi")})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a full queue")
	}
	if !strings.Contains(fs.last(), "too fast") {
		t.Fatalf("want busy reply, got %q", fs.last())
	}
}

func TestPanicInHandlerIsContained(t *testing.T) {
	fs := &fakeSender{}
	b := newTestBot(t, fs, &fakeSheets{}, nil)
	b.parser = nil // force a nil dereference inside the handler

	if _, err := b.sessions.Transition(1, session.ModeInput); err != nil {
		t.Fatalf("transition: %v", err)
	}
	b.handleUpdate(context.Background(), tgbotapi.Update{
		Message: textMsg(1, "anything"),
	})

	if !strings.Contains(fs.last(), "try again") {
		t.Fatalf("panic must resolve to a generic reply, got %q", fs.last())
	}
}
