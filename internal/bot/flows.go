package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"costbot/internal/core"
	"costbot/internal/session"
	"costbot/internal/store"
)

// Flow handlers. Each one consumes a single inbound message in a non-Start
// state and either advances the flow, completes it (writing to the ledger
// and resetting to Start), or reprompts without changing state.

func (b *Bot) newCategoryAlias(ctx context.Context, account core.Account, text string) (string, error) {
	alias := strings.TrimSpace(text)
	if alias == "" {
		return "Give an alias for category", nil
	}

	existing, err := b.ledger.FindCategoryByAlias(ctx, account, alias)
	if err != nil {
		return b.storeFailure(ctx, "find category", err)
	}
	if existing != nil {
		return fmt.Sprintf("This alias is reserved for %s", existing.Name), nil
	}

	b.sessions.Set(account, session.AwaitingNewCategoryName{Alias: alias})
	return "Give full name", nil
}

func (b *Bot) newCategoryName(ctx context.Context, account core.Account, st session.AwaitingNewCategoryName, text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "Give a name for category", nil
	}

	if _, err := b.ledger.CreateCategory(ctx, account, st.Alias, name); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race since the alias pre-check; the user picks again.
			b.sessions.Set(account, session.AwaitingNewCategoryAlias{})
			return fmt.Sprintf("Alias %q is already taken, give another alias", st.Alias), nil
		}
		return b.storeFailure(ctx, "create category", err)
	}

	b.sessions.Reset(account)
	return fmt.Sprintf("Category saved\n\tAlias=%s\n\tName=%s", st.Alias, name), nil
}

func (b *Bot) renameAlias(ctx context.Context, account core.Account, text string) (string, error) {
	cats, err := b.ledger.ListCategories(ctx, account)
	if err != nil {
		return b.storeFailure(ctx, "list categories", err)
	}

	alias := strings.TrimSpace(text)
	cat, ok := core.ResolveAlias(cats, alias)
	if !ok {
		return formatCategories(cats), nil
	}

	b.sessions.Set(account, session.AwaitingRenameNewAlias{CategoryID: cat.ID, Alias: cat.Alias})
	return "Provide new alias", nil
}

func (b *Bot) renameNewAlias(ctx context.Context, account core.Account, st session.AwaitingRenameNewAlias, text string) (string, error) {
	newAlias := strings.TrimSpace(text)
	if newAlias == "" {
		return "Provide alias name", nil
	}

	b.sessions.Set(account, session.AwaitingRenameNewName{
		CategoryID: st.CategoryID,
		Alias:      st.Alias,
		NewAlias:   newAlias,
	})
	return "Provide name", nil
}

func (b *Bot) renameNewName(ctx context.Context, account core.Account, st session.AwaitingRenameNewName, text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "Provide a name", nil
	}

	if err := b.ledger.RenameCategory(ctx, account, st.CategoryID, st.NewAlias, name); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			b.sessions.Set(account, session.AwaitingRenameNewAlias{CategoryID: st.CategoryID, Alias: st.Alias})
			return fmt.Sprintf("Alias %q is already taken, provide another alias", st.NewAlias), nil
		case errors.Is(err, core.ErrUnknownCategory):
			// Category vanished mid-flow; nothing left to rename.
			b.sessions.Reset(account)
			return fmt.Sprintf("No category with alias %q anymore", st.Alias), nil
		default:
			return b.storeFailure(ctx, "rename category", err)
		}
	}

	b.sessions.Reset(account)
	return "Category updated", nil
}

func (b *Bot) costCategory(ctx context.Context, account core.Account, st session.AwaitingCostCategory, text string) (string, error) {
	cats, err := b.ledger.ListCategories(ctx, account)
	if err != nil {
		return b.storeFailure(ctx, "list categories", err)
	}

	cat, ok := core.ResolveAlias(cats, strings.TrimSpace(text))
	if !ok {
		return formatCategories(cats), nil
	}

	id, err := b.ledger.CreateCost(ctx, cat.ID, core.Money{Cents: st.AmountCents}, time.Time{})
	if err != nil {
		return b.storeFailure(ctx, "create cost", err)
	}
	b.publishCostLogged(ctx, id)
	b.sessions.Reset(account)
	return "Saved", nil
}

func (b *Bot) costAmount(ctx context.Context, account core.Account, st session.AwaitingCostAmount, text string) (string, error) {
	cents, err := core.ParseAmountCents(strings.TrimSpace(text))
	if err != nil {
		return "Specify amount", nil
	}

	id, err := b.ledger.CreateCost(ctx, st.CategoryID, core.Money{Cents: cents}, time.Time{})
	if err != nil {
		return b.storeFailure(ctx, "create cost", err)
	}
	b.publishCostLogged(ctx, id)
	b.sessions.Reset(account)
	return "Created!", nil
}
