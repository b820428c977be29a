package core

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		now  time.Time
		from time.Time
		to   time.Time
	}{
		{
			time.Date(2025, 6, 17, 13, 45, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// December rolls over into the next year
			time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		w := MonthWindow(tc.now)
		if !w.From.Equal(tc.from) || !w.To.Equal(tc.to) {
			t.Fatalf("now=%v: expected [%v, %v), got [%v, %v)", tc.now, tc.from, tc.to, w.From, w.To)
		}
	}
}

func TestWindowContains(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	w := Window{From: from, To: to}

	if !w.Contains(from) {
		t.Fatal("from bound is inclusive")
	}
	if w.Contains(to) {
		t.Fatal("to bound is exclusive")
	}
	if w.Contains(from.Add(-time.Second)) {
		t.Fatal("before from must be excluded")
	}
	if !(Window{}).Contains(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("zero window is unbounded")
	}
	if !(Window{From: from}).Contains(to.AddDate(10, 0, 0)) {
		t.Fatal("missing to bound is unbounded")
	}
}

func TestStatTotals(t *testing.T) {
	s := Stat{Groups: []StatGroup{
		{Alias: "food", Name: "Food", Count: 3, Amount: Money{Cents: 600}},
		{Alias: "fun", Name: "Fun", Count: 2, Amount: Money{Cents: 450}},
	}}

	if s.TotalCount() != 5 {
		t.Fatalf("expected total count 5, got %d", s.TotalCount())
	}
	if s.TotalAmount().Cents != 1050 {
		t.Fatalf("expected total amount 1050, got %d", s.TotalAmount().Cents)
	}
}

func TestStatString(t *testing.T) {
	s := Stat{Groups: []StatGroup{
		{Alias: "food", Name: "Food", Count: 1, Amount: Money{Cents: 500}},
	}}
	want := "-> Food: n=1, amount=5.00\nItems: 1  Amount: 5.00"
	if got := s.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	empty := Stat{}
	if got := empty.String(); got != "Items: 0  Amount: 0.00" {
		t.Fatalf("empty stat: got %q", got)
	}
}
