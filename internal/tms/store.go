// Package tms implements C1, the Justification Store: the map from each
// live WME to the non-empty set of reasons it remains in working memory.
package tms

import (
	"sync"

	"github.com/dsouflis/rete-reasoner/internal/model"
)

// Record is a WME together with its live justifications. The invariant
// enforced by Store is that a Record exists iff the WME is in working
// memory iff at least one justification remains.
type Record struct {
	WME            *model.WME
	Justifications []model.Justification
}

// Store is the justification store (C1). It is keyed by model.Key so that
// lookups work from a freshly-constructed (id, attr, val) triple without
// needing the original WME pointer; the store and the matcher's working
// memory are required to agree on key sets at all times.
type Store struct {
	mu      sync.RWMutex
	records map[model.Key]*Record
}

// New builds an empty Store.
func New() *Store {
	return &Store{records: make(map[model.Key]*Record)}
}

// Record implements record(wme, justification). Each call appends a fresh
// justification entry; it does not itself deduplicate against
// already-present equal entries. This is deliberate: the §8 idempotence
// invariant requires that asserting the same axiomatic fact twice yields a
// WME with *two* axiomatic justifications (so a single later retract still
// leaves it live) — axiomatic justifications carry no distinguishing
// payload, so "idempotent in the set semantics" cannot mean exact-duplicate
// suppression for that kind. Where the spec does require suppressing an
// exact duplicate (§4.4 step (b)(5), "if t itself was added, not already
// present"), the caller checks HasProductionJustification before calling
// Record. Returns true if this is the WME's first justification (i.e. the
// record was just created).
func (s *Store) Record(w *model.WME, j model.Justification) (created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[w.Key]
	if !ok {
		s.records[w.Key] = &Record{WME: w, Justifications: []model.Justification{j}}
		return true
	}
	rec.Justifications = append(rec.Justifications, j)
	return false
}

// HasProductionJustification reports whether key already carries a
// production-derived justification for (rule, token) — the "not already
// present" guard of §4.4 step (b)(5).
func (s *Store) HasProductionJustification(key model.Key, rule string, token *model.Token) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return false
	}
	for _, j := range rec.Justifications {
		if j.Kind == model.ProductionDerived && j.Rule == rule && j.Token == token {
			return true
		}
	}
	return false
}

// Has reports whether a WME key currently has a live record.
func (s *Store) Has(key model.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[key]
	return ok
}

// Get returns the record for a key, if any.
func (s *Store) Get(key model.Key) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[key]
	return r, ok
}

// Withdraw implements withdraw(wme, predicate): removes every justification
// satisfying pred, returning whether the justification set became empty. If
// it did, the record is pruned from the store immediately — the caller
// (the cycle driver) remains responsible for telling the matcher to remove
// the WME itself.
func (s *Store) Withdraw(key model.Key, pred func(model.Justification) bool) (becameEmpty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return false
	}
	kept := rec.Justifications[:0:0]
	for _, j := range rec.Justifications {
		if !pred(j) {
			kept = append(kept, j)
		}
	}
	rec.Justifications = kept
	if len(kept) == 0 {
		delete(s.records, key)
		return true
	}
	return false
}

// Prune removes the record for key unconditionally. The cycle driver does
// not call it: Withdraw and RemoveFirst already delete a record whose
// justification set becomes empty.
func (s *Store) Prune(key model.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}

// FindRetractable implements find_retractable(wme): returns one Axiomatic or
// DefuzzificationDerived justification if any, else ok is false.
// Production-derived justifications are never directly retractable by the
// user.
func (s *Store) FindRetractable(key model.Key) (model.Justification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return model.Justification{}, false
	}
	for _, j := range rec.Justifications {
		if j.IsRetractable() {
			return j, true
		}
	}
	return model.Justification{}, false
}

// JustificationsOf implements justifications_of(wme): read-only iteration
// over a WME's current justification set.
func (s *Store) JustificationsOf(key model.Key) []model.Justification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil
	}
	return append([]model.Justification(nil), rec.Justifications...)
}

// Keys returns every WME key currently holding a record — used to verify
// the "store's key set is exactly the matcher's working memory" invariant
// in tests, and by apply() step (a) to find the records that hold a
// withdrawn token's justification.
func (s *Store) Keys() []model.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Key, 0, len(s.records))
	for k := range s.records {
		out = append(out, k)
	}
	return out
}

// RemoveFirst removes only the first justification satisfying match (by
// declaration order in the record), not every matching one. This backs
// interactive retract, which removes exactly the single instance returned
// by FindRetractable even when other, Equal, instances remain (e.g. a fact
// asserted axiomatically twice).
func (s *Store) RemoveFirst(key model.Key, match func(model.Justification) bool) (becameEmpty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return false
	}
	idx := -1
	for i, j := range rec.Justifications {
		if match(j) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	rec.Justifications = append(rec.Justifications[:idx], rec.Justifications[idx+1:]...)
	if len(rec.Justifications) == 0 {
		delete(s.records, key)
		return true
	}
	return false
}

// WithdrawByToken removes every ProductionDerived justification of key that
// was produced by (rule, token), the operation used by apply() step (a)
// when a token is withdrawn from the conflict set.
func (s *Store) WithdrawByToken(key model.Key, rule string, token *model.Token) bool {
	return s.Withdraw(key, func(j model.Justification) bool {
		return j.Kind == model.ProductionDerived && j.Rule == rule && j.Token == token
	})
}
