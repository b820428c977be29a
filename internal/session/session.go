// Package session holds the per-account conversation state driving
// multi-step flows. State lives in process memory only: a restart resets
// every in-flight conversation to Start.
package session

import (
	"sync"

	"costbot/internal/core"
)

// State is a closed set of conversation states, one type per flow step.
// The dispatcher matches exhaustively over these; an unmatched state is a
// programming error surfaced at runtime, not silently ignored.
type State interface {
	conversationState()
}

type (
	// Start is the idle state; only top-level commands and the stateless
	// cost scanner run here.
	Start struct{}

	AwaitingNewCategoryAlias struct{}

	AwaitingNewCategoryName struct {
		Alias string
	}

	AwaitingRenameAlias struct{}

	AwaitingRenameNewAlias struct {
		CategoryID int64
		Alias      string
	}

	AwaitingRenameNewName struct {
		CategoryID int64
		Alias      string
		NewAlias   string
	}

	AwaitingCostCategory struct {
		AmountCents int64
	}

	AwaitingCostAmount struct {
		CategoryID int64
	}
)

func (Start) conversationState()                    {}
func (AwaitingNewCategoryAlias) conversationState() {}
func (AwaitingNewCategoryName) conversationState()  {}
func (AwaitingRenameAlias) conversationState()      {}
func (AwaitingRenameNewAlias) conversationState()   {}
func (AwaitingRenameNewName) conversationState()    {}
func (AwaitingCostCategory) conversationState()     {}
func (AwaitingCostAmount) conversationState()       {}

// Store maps accounts to their conversation state. Entries are created
// lazily on first read and never evicted; chats are few and long-lived.
type Store struct {
	mu       sync.Mutex
	sessions map[core.Account]State
}

func NewStore() *Store {
	return &Store{sessions: make(map[core.Account]State)}
}

// Get returns the account's current state, Start when none exists yet.
func (s *Store) Get(account core.Account) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.sessions[account]; ok {
		return st
	}
	return Start{}
}

// Set replaces the account's state.
func (s *Store) Set(account core.Account, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[account] = st
}

// Reset returns the account to Start, discarding any pending flow context.
func (s *Store) Reset(account core.Account) {
	s.Set(account, Start{})
}
