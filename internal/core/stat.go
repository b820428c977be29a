package core

import (
	"fmt"
	"strings"
	"time"
)

// Window is a half-open UTC interval [From, To). A zero bound means
// unbounded on that side.
type Window struct {
	From time.Time
	To   time.Time
}

// MonthWindow returns the window covering the UTC month that now falls in:
// [first instant of the month, first instant of the next month).
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// StatGroup is the per-category aggregate within a query window.
type StatGroup struct {
	Alias  string
	Name   string
	Count  int64
	Amount Money
}

// Stat is an ordered collection of per-category groups. Grand totals are
// derived, never stored: the sum over groups must equal summing the raw
// entries directly, however they are grouped.
type Stat struct {
	Groups []StatGroup
}

func (s Stat) TotalCount() int64 {
	var n int64
	for _, g := range s.Groups {
		n += g.Count
	}
	return n
}

func (s Stat) TotalAmount() Money {
	var sum Money
	for _, g := range s.Groups {
		sum = sum.Add(g.Amount)
	}
	return sum
}

func (g StatGroup) String() string {
	return fmt.Sprintf("-> %s: n=%d, amount=%s", g.Name, g.Count, g.Amount)
}

// String renders the stat report: one line per category, then totals.
func (s Stat) String() string {
	var b strings.Builder
	for _, g := range s.Groups {
		b.WriteString(g.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Items: %d  Amount: %s", s.TotalCount(), s.TotalAmount())
	return b.String()
}
