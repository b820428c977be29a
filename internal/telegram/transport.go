// Package telegram adapts Telegram long polling to the conversation core.
// It parses /commands (including the short aliases the bot has always
// had), and serializes handling per chat: messages from one chat are
// processed one at a time in arrival order, while different chats run in
// parallel.
package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"costbot/internal/bot"
	"costbot/internal/core"
	"costbot/internal/log"
)

// Handler is the conversation core the transport feeds.
type Handler interface {
	HandleCommand(ctx context.Context, account core.Account, cmd bot.Command) (string, error)
	HandleText(ctx context.Context, account core.Account, text string) (string, error)
}

// Short command aliases mapped to canonical names.
var commandAliases = map[string]string{
	"lc":   bot.CmdListCategories,
	"nc":   bot.CmdAddCategory,
	"uc":   bot.CmdUpdateCategory,
	"cost": bot.CmdAddCost,
	"rm":   bot.CmdRemoveLastCost,
	"stm":  bot.CmdStatThisMonth,
	"sp":   bot.CmdStatPeriod,
}

const queueCapacity = 16

type Transport struct {
	api     *tgbotapi.BotAPI
	handler Handler
	logger  *log.Logger
	send    func(account core.Account, text string) error

	mu     sync.Mutex
	queues map[core.Account]chan tgbotapi.Message
	wg     sync.WaitGroup
}

func New(token string, handler Handler, logger *log.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		api:     api,
		handler: handler,
		logger:  logger.WithComponent(log.ComponentTelegram),
		queues:  make(map[core.Account]chan tgbotapi.Message),
	}
	t.send = func(account core.Account, text string) error {
		_, err := api.Send(tgbotapi.NewMessage(int64(account), text))
		return err
	}
	return t, nil
}

// Run polls for updates until ctx is cancelled, then waits for per-chat
// workers to drain.
func (t *Transport) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)

	t.logger.Info("Telegram transport started", "bot", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			t.wg.Wait()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				t.wg.Wait()
				return nil
			}
			if upd.Message == nil || upd.Message.Text == "" {
				continue
			}
			t.dispatch(ctx, *upd.Message)
		}
	}
}

// dispatch enqueues the message on its chat's worker, starting the worker
// lazily on the first message. Each worker is the only goroutine handling
// its account, which is what keeps session transitions exactly-once.
func (t *Transport) dispatch(ctx context.Context, msg tgbotapi.Message) {
	account := core.Account(msg.Chat.ID)

	t.mu.Lock()
	q, ok := t.queues[account]
	if !ok {
		q = make(chan tgbotapi.Message, queueCapacity)
		t.queues[account] = q
		t.wg.Add(1)
		go t.accountLoop(ctx, account, q)
	}
	t.mu.Unlock()

	select {
	case q <- msg:
	default:
		t.logger.Warn("Dropping message, account queue full",
			log.FieldAccount, int64(account),
			log.FieldMessageID, msg.MessageID)
	}
}

func (t *Transport) accountLoop(ctx context.Context, account core.Account, q <-chan tgbotapi.Message) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q:
			t.handleMessage(ctx, account, msg)
		}
	}
}

func (t *Transport) handleMessage(ctx context.Context, account core.Account, msg tgbotapi.Message) {
	var reply string
	var err error

	if msg.IsCommand() {
		cmd := bot.Command{
			Name: CanonicalCommand(msg.Command()),
			Args: strings.Fields(msg.CommandArguments()),
		}
		reply, err = t.handler.HandleCommand(ctx, account, cmd)
	} else {
		reply, err = t.handler.HandleText(ctx, account, msg.Text)
	}
	if err != nil {
		// The handler already produced a user-facing reply; the error is
		// for operators.
		t.logger.ErrorContext(ctx, "Message handling failed",
			log.FieldAccount, int64(account),
			log.FieldMessageID, msg.MessageID,
			log.FieldError, err)
	}
	if reply == "" {
		return
	}

	if err := t.send(account, reply); err != nil {
		t.logger.ErrorContext(ctx, "Failed to send reply",
			log.FieldAccount, int64(account),
			log.FieldError, err)
	}
}

// CanonicalCommand lowercases a command name and expands short aliases.
func CanonicalCommand(name string) string {
	name = strings.ToLower(name)
	if canonical, ok := commandAliases[name]; ok {
		return canonical
	}
	return name
}
