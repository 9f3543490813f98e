package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catatbot/internal/audit"
	"catatbot/internal/nlp"
	"catatbot/internal/session"
	"catatbot/internal/sheets"
)

type Bot struct {
	s         sender
	api       *tgbotapi.BotAPI
	sessions  *session.Manager
	sheetsCli sheets.Client
	recorder  audit.Recorder
	parser    *nlp.Parser
	allowed   map[int64]struct{}
	parseMode string
	timeout   time.Duration
	now       func() time.Time

	qmu    sync.Mutex
	queues map[int64]chan tgbotapi.Update
	wg     sync.WaitGroup
}

func New(
	botToken string,
	sessions *session.Manager,
	sheetsCli sheets.Client,
	recorder audit.Recorder,
	allowedUsers []int64,
	parseMode string,
	sheetsTimeout time.Duration,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newBot(botAPISender{api: api}, sessions, sheetsCli, recorder, allowedUsers, parseMode, sheetsTimeout)
	b.api = api
	return b, nil
}

func newBot(
	s sender,
	sessions *session.Manager,
	sheetsCli sheets.Client,
	recorder audit.Recorder,
	allowedUsers []int64,
	parseMode string,
	sheetsTimeout time.Duration,
) *Bot {
	var allowed map[int64]struct{}
	if len(allowedUsers) > 0 {
		allowed = make(map[int64]struct{}, len(allowedUsers))
		for _, id := range allowedUsers {
			allowed[id] = struct{}{}
		}
	}
	return &Bot{
		s:         s,
		sessions:  sessions,
		sheetsCli: sheetsCli,
		recorder:  recorder,
		parser:    nlp.NewParser(nlp.DefaultVocabulary()),
		allowed:   allowed,
		parseMode: parseMode,
		timeout:   sheetsTimeout,
		now:       time.Now,
		queues:    make(map[int64]chan tgbotapi.Update),
	}
}

// Start consumes the update channel until ctx is cancelled. Updates are
// dispatched to one ordered queue per user id: events of a single user
// are handled strictly in arrival order while distinct users proceed in
// parallel.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.drain()
			return
		case update, ok := <-updates:
			if !ok {
				b.drain()
				return
			}
			userID, ok := updateUserID(update)
			if !ok {
				continue
			}
			b.dispatch(ctx, userID, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, userID int64, update tgbotapi.Update) {
	b.qmu.Lock()
	q, ok := b.queues[userID]
	if !ok {
		q = make(chan tgbotapi.Update, 16)
		b.queues[userID] = q
		b.wg.Add(1)
		go b.worker(ctx, q)
	}
	b.qmu.Unlock()
	// A backed-up queue must not stall the dispatcher: every other
	// user's updates flow through the same loop.
	select {
	case q <- update:
	default:
		log.Printf("dropping update for user %d: queue full", userID)
		if chatID, ok := updateChatID(update); ok {
			b.sendMessage(chatID, "You're sending messages too fast. Please wait a moment and resend the last one.")
		}
	}
}

func (b *Bot) worker(ctx context.Context, q chan tgbotapi.Update) {
	defer b.wg.Done()
	for update := range q {
		b.handleUpdate(ctx, update)
	}
}

func (b *Bot) drain() {
	b.qmu.Lock()
	for _, q := range b.queues {
		close(q)
	}
	b.queues = make(map[int64]chan tgbotapi.Update)
	b.qmu.Unlock()
	b.wg.Wait()
}

// handleUpdate is the failure boundary of one event: a panic in any
// handler resolves to a generic reply instead of taking the process
// down with it.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while handling update: %v", r)
			if chatID, ok := updateChatID(update); ok {
				b.sendMessage(chatID, "Something went wrong. Please try again.")
			}
		}
	}()
	switch {
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func updateUserID(u tgbotapi.Update) (int64, bool) {
	if u.Message != nil && u.Message.From != nil {
		return u.Message.From.ID, true
	}
	if u.CallbackQuery != nil && u.CallbackQuery.From != nil {
		return u.CallbackQuery.From.ID, true
	}
	return 0, false
}

func updateChatID(u tgbotapi.Update) (int64, bool) {
	if u.Message != nil && u.Message.Chat != nil {
		return u.Message.Chat.ID, true
	}
	if u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil {
		return u.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

func (b *Bot) isAllowed(userID int64) bool {
	if b.allowed == nil {
		return true
	}
	_, ok := b.allowed[userID]
	return ok
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseMode
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseMode
	msg.ReplyMarkup = kb
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if b.api == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
}
