package bot

import (
	"context"
	"strings"
	"time"

	"costbot/internal/core"
	"costbot/internal/session"
)

// scanFreeForm handles a free-form message in the Start state. The message
// is scanned token by token against a single category snapshot: a token
// parsing as a number becomes the candidate amount, a token matching an
// alias becomes the candidate category. Later matches overwrite earlier
// ones, so in "food 5 fun 7" the fun/7 pair wins.
func (b *Bot) scanFreeForm(ctx context.Context, account core.Account, text string) (string, error) {
	cats, err := b.ledger.ListCategories(ctx, account)
	if err != nil {
		return b.storeFailure(ctx, "list categories", err)
	}

	var (
		amount    int64
		hasAmount bool
		cat       core.Category
		hasCat    bool
	)
	for _, tok := range strings.Fields(text) {
		if cents, err := core.ParseAmountCents(tok); err == nil {
			amount = cents
			hasAmount = true
		}
		if c, ok := core.ResolveAlias(cats, tok); ok {
			cat = c
			hasCat = true
		}
	}

	switch {
	case hasAmount && hasCat:
		id, err := b.ledger.CreateCost(ctx, cat.ID, core.Money{Cents: amount}, time.Time{})
		if err != nil {
			return b.storeFailure(ctx, "create cost", err)
		}
		b.publishCostLogged(ctx, id)
		return "Added!", nil

	case hasCat:
		b.sessions.Set(account, session.AwaitingCostAmount{CategoryID: cat.ID})
		return "How much?", nil

	case hasAmount:
		b.sessions.Set(account, session.AwaitingCostCategory{AmountCents: amount})
		return "Specify category alias", nil

	default:
		return "/help", nil
	}
}
