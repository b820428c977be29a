package session

import (
	"sync"
	"testing"

	"costbot/internal/core"
)

func TestStoreDefaultsToStart(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(1).(Start); !ok {
		t.Fatalf("expected Start for unknown account, got %T", s.Get(1))
	}
}

func TestStoreSetGetReset(t *testing.T) {
	s := NewStore()

	s.Set(1, AwaitingNewCategoryName{Alias: "food"})
	st, ok := s.Get(1).(AwaitingNewCategoryName)
	if !ok || st.Alias != "food" {
		t.Fatalf("expected AwaitingNewCategoryName{food}, got %#v", s.Get(1))
	}

	// Other accounts are untouched
	if _, ok := s.Get(2).(Start); !ok {
		t.Fatalf("state leaked across accounts: %T", s.Get(2))
	}

	s.Reset(1)
	if _, ok := s.Get(1).(Start); !ok {
		t.Fatalf("expected Start after reset, got %T", s.Get(1))
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			account := core.Account(n % 4)
			s.Set(account, AwaitingCostAmount{CategoryID: int64(n)})
			_ = s.Get(account)
			s.Reset(account)
		}(i)
	}
	wg.Wait()
}
