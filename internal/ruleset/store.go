// Package ruleset provides the in-memory per-client rule store (spec
// component A). It is the only shared mutable state in the rewrite engine.
package ruleset

import (
	"fmt"
	"sync"

	"github.com/devproxy/rewriteproxy/pkg/rule"
)

// Store is a thread-safe in-memory mapping of clientId -> ordered rule list.
// Reads take a cheap snapshot of the slice reference; writers atomically
// swap the slice under a short lock. No rule object is mutated after being
// published into the store.
type Store struct {
	mu    sync.RWMutex
	lists map[string]rule.RuleList
}

// New creates an empty Store.
func New() *Store {
	return &Store{lists: make(map[string]rule.RuleList)}
}

// Get returns the current rule list for clientId, or an empty list if the
// client has never had rules put. The returned slice must not be mutated by
// the caller — it is shared with the store.
func (s *Store) Get(clientID string) rule.RuleList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists[clientID]
}

// Put atomically replaces the rule list for clientID. The list is validated
// as a whole before being accepted; a rejected list leaves the store
// untouched so the matcher never observes a partially-applied update.
func (s *Store) Put(clientID string, rules rule.RuleList) error {
	if clientID == "" {
		return fmt.Errorf("ruleset: clientID must not be empty")
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("ruleset: rejecting rule list for %s: %w", clientID, err)
	}

	// Copy so a caller mutating their slice after Put can't corrupt the
	// published list.
	snapshot := make(rule.RuleList, len(rules))
	for i, r := range rules {
		c := *r
		snapshot[i] = &c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[clientID] = snapshot
	return nil
}

// Delete removes all rules for a client.
func (s *Store) Delete(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, clientID)
}

// Clients returns the set of client ids currently holding rules.
func (s *Store) Clients() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.lists))
	for id := range s.lists {
		out = append(out, id)
	}
	return out
}
