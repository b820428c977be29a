package core

import (
	"errors"
	"time"
)

type (
	// Account is the chat/conversation identity scoping all categories and costs.
	Account int64

	Money struct {
		Cents int64
	}

	Category struct {
		ID      int64
		Account Account
		Alias   string // short token users type, unique per account
		Name    string
	}

	CostEntry struct {
		ID         int64
		CategoryID int64
		At         time.Time
		Amount     Money
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
)

// ParseDate parses a user-supplied YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// ResolveAlias returns the unique category whose alias equals token exactly.
// Case-sensitive, no fuzzy or prefix matching. Zero or multiple matches
// resolve to nothing; the store's uniqueness constraint makes "multiple"
// unreachable in practice, but the resolver does not assume it.
func ResolveAlias(categories []Category, token string) (Category, bool) {
	var found Category
	n := 0
	for _, c := range categories {
		if c.Alias == token {
			found = c
			n++
		}
	}
	if n != 1 {
		return Category{}, false
	}
	return found, true
}
