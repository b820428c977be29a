// Package bot implements the conversation core: top-level command
// dispatch, the multi-step flows for category and cost entry, and the
// stateless free-form cost scanner. It is transport-agnostic; the
// messaging layer feeds it parsed commands or raw text and sends back
// whatever reply it returns.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"costbot/internal/core"
	"costbot/internal/session"
)

// Ledger is the persistent store the conversation handlers write to and
// query. *store.Store satisfies it; tests use an in-memory fake.
type Ledger interface {
	ListCategories(ctx context.Context, account core.Account) ([]core.Category, error)
	FindCategoryByAlias(ctx context.Context, account core.Account, alias string) (*core.Category, error)
	CreateCategory(ctx context.Context, account core.Account, alias, name string) (int64, error)
	RenameCategory(ctx context.Context, account core.Account, id int64, newAlias, newName string) error
	CreateCost(ctx context.Context, categoryID int64, amount core.Money, at time.Time) (int64, error)
	RemoveLastCost(ctx context.Context, account core.Account) (*core.CostEntry, error)
	QueryStats(ctx context.Context, account core.Account, w core.Window) (core.Stat, error)
}

// Publisher emits cost events for the export pipeline. May be nil, in
// which case events are skipped; a publish failure never fails the
// user-facing operation.
type Publisher interface {
	PublishCostLogged(ctx context.Context, id int64) error
	PublishCostRemoved(ctx context.Context, id int64) error
}

// Command is a parsed top-level command as delivered by the transport.
type Command struct {
	Name string
	Args []string
}

// Canonical command names. The transport maps short aliases (lc, nc, uc,
// cost, rm, stm, sp) onto these.
const (
	CmdHelp           = "help"
	CmdStart          = "start"
	CmdListCategories = "list_categories"
	CmdAddCategory    = "add_category"
	CmdUpdateCategory = "update_category"
	CmdAddCost        = "add_cost"
	CmdRemoveLastCost = "remove_last_cost"
	CmdStatThisMonth  = "stat_this_month"
	CmdStatPeriod     = "stat_period"
)

const helpText = `/help - help
/start - Start the bot
/list_categories - List of categories
/add_category - New category
/update_category - Update category
/add_cost alias YYYY-MM-DD XX.XX - Add cost
/remove_last_cost - Remove last cost
/stat_this_month - Stat this month
/stat_period YYYY-MM-DD YYYY-MM-DD - Overall stat in period`

const replyFailure = "Something went wrong, try again"

type Bot struct {
	ledger    Ledger
	sessions  *session.Store
	publisher Publisher
	now       func() time.Time
}

func New(ledger Ledger, sessions *session.Store, publisher Publisher) *Bot {
	return &Bot{
		ledger:    ledger,
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
	}
}

// HandleCommand dispatches a top-level command. Issuing any command
// abandons a pending flow: the session is reset to Start first, then the
// command either replies directly or enters its flow's first state.
func (b *Bot) HandleCommand(ctx context.Context, account core.Account, cmd Command) (string, error) {
	b.sessions.Reset(account)

	switch cmd.Name {
	case CmdHelp:
		return helpText, nil

	case CmdStart:
		return "/help", nil

	case CmdListCategories:
		cats, err := b.ledger.ListCategories(ctx, account)
		if err != nil {
			return b.storeFailure(ctx, "list categories", err)
		}
		return formatCategories(cats), nil

	case CmdAddCategory:
		b.sessions.Set(account, session.AwaitingNewCategoryAlias{})
		return "Specify category alias", nil

	case CmdUpdateCategory:
		cats, err := b.ledger.ListCategories(ctx, account)
		if err != nil {
			return b.storeFailure(ctx, "list categories", err)
		}
		b.sessions.Set(account, session.AwaitingRenameAlias{})
		return "Specify alias for category to update\n" + formatCategories(cats), nil

	case CmdAddCost:
		return b.cmdAddCost(ctx, account, cmd.Args)

	case CmdRemoveLastCost:
		return b.cmdRemoveLastCost(ctx, account)

	case CmdStatThisMonth:
		stat, err := b.ledger.QueryStats(ctx, account, core.MonthWindow(b.now()))
		if err != nil {
			return b.storeFailure(ctx, "stat this month", err)
		}
		return stat.String(), nil

	case CmdStatPeriod:
		return b.cmdStatPeriod(ctx, account, cmd.Args)

	default:
		return helpText, nil
	}
}

// cmdAddCost is the one-shot /add_cost alias YYYY-MM-DD XX.XX path.
func (b *Bot) cmdAddCost(ctx context.Context, account core.Account, args []string) (string, error) {
	if len(args) != 3 {
		return "Usage: /add_cost alias YYYY-MM-DD XX.XX", nil
	}
	alias, dateArg, amountArg := args[0], args[1], args[2]

	cat, err := b.ledger.FindCategoryByAlias(ctx, account, alias)
	if err != nil {
		return b.storeFailure(ctx, "find category", err)
	}
	if cat == nil {
		return fmt.Sprintf("No category with alias %q, provide an existing one", alias), nil
	}

	at, err := core.ParseDate(dateArg)
	if err != nil {
		return "Provide date in YYYY-MM-DD format", nil
	}

	cents, err := core.ParseAmountCents(amountArg)
	if err != nil {
		return "Provide amount like 12.50", nil
	}

	id, err := b.ledger.CreateCost(ctx, cat.ID, core.Money{Cents: cents}, at)
	if err != nil {
		return b.storeFailure(ctx, "create cost", err)
	}
	b.publishCostLogged(ctx, id)
	return "Created!", nil
}

func (b *Bot) cmdRemoveLastCost(ctx context.Context, account core.Account) (string, error) {
	removed, err := b.ledger.RemoveLastCost(ctx, account)
	if err != nil {
		return b.storeFailure(ctx, "remove last cost", err)
	}
	if removed == nil {
		return "Nothing to remove", nil
	}
	b.publishCostRemoved(ctx, removed.ID)
	return "Removed", nil
}

func (b *Bot) cmdStatPeriod(ctx context.Context, account core.Account, args []string) (string, error) {
	if len(args) != 2 {
		return "Usage: /stat_period YYYY-MM-DD YYYY-MM-DD", nil
	}
	from, err := core.ParseDate(args[0])
	if err != nil {
		return "Provide date from in YYYY-MM-DD format", nil
	}
	to, err := core.ParseDate(args[1])
	if err != nil {
		return "Provide date to in YYYY-MM-DD format", nil
	}

	stat, err := b.ledger.QueryStats(ctx, account, core.Window{From: from, To: to})
	if err != nil {
		return b.storeFailure(ctx, "stat period", err)
	}
	return stat.String(), nil
}

// HandleText processes a free-text message according to the account's
// conversation state. The type switch is exhaustive over session.State;
// a state without a handler is an error, never a silent no-op.
func (b *Bot) HandleText(ctx context.Context, account core.Account, text string) (string, error) {
	switch st := b.sessions.Get(account).(type) {
	case session.Start:
		return b.scanFreeForm(ctx, account, text)
	case session.AwaitingNewCategoryAlias:
		return b.newCategoryAlias(ctx, account, text)
	case session.AwaitingNewCategoryName:
		return b.newCategoryName(ctx, account, st, text)
	case session.AwaitingRenameAlias:
		return b.renameAlias(ctx, account, text)
	case session.AwaitingRenameNewAlias:
		return b.renameNewAlias(ctx, account, st, text)
	case session.AwaitingRenameNewName:
		return b.renameNewName(ctx, account, st, text)
	case session.AwaitingCostCategory:
		return b.costCategory(ctx, account, st, text)
	case session.AwaitingCostAmount:
		return b.costAmount(ctx, account, st, text)
	default:
		return replyFailure, fmt.Errorf("no handler for conversation state %T", st)
	}
}

func (b *Bot) storeFailure(ctx context.Context, op string, err error) (string, error) {
	// Session state is left as-is: the user's next identical input
	// re-attempts the same operation.
	slog.ErrorContext(ctx, "Ledger operation failed", "operation", op, "error", err)
	return replyFailure, err
}

func (b *Bot) publishCostLogged(ctx context.Context, id int64) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishCostLogged(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish cost logged event", "id", id, "error", err)
	}
}

func (b *Bot) publishCostRemoved(ctx context.Context, id int64) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishCostRemoved(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish cost removed event", "id", id, "error", err)
	}
}

func formatCategories(cats []core.Category) string {
	if len(cats) == 0 {
		return "No categories created"
	}
	lines := make([]string, 0, len(cats)+1)
	lines = append(lines, "Categories")
	for _, c := range cats {
		lines = append(lines, fmt.Sprintf("%s (%s)", c.Name, c.Alias))
	}
	return strings.Join(lines, "\n")
}
