package chat

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Gate wires OPENAI_API_KEY presence plus a one-time interactive
// confirmation into a single ask-once decision, shared via
// singleflight.Group so that a confirmation prompt in flight is never
// duplicated if more than one caller asks concurrently. The REPL described
// in §6 is single-goroutine and would never actually race on this, but the
// teacher's codebase reaches for golang.org/x/sync whenever more than one
// caller could plausibly contend for a gated resource, and this keeps that
// guarantee true even if the REPL is later driven by more than one input
// source (e.g. a piped script alongside interactive stdin).
type Gate struct {
	apiKey string

	mu        sync.Mutex
	confirmed bool
	declined  bool
	group     singleflight.Group
}

// NewGate builds a Gate for the given OPENAI_API_KEY value (possibly
// empty).
func NewGate(apiKey string) *Gate {
	return &Gate{apiKey: apiKey}
}

// Available reports whether the chat path could ever activate — i.e.
// whether OPENAI_API_KEY was set at all (§7 "OpenAI unavailable").
func (g *Gate) Available() bool {
	return g.apiKey != ""
}

// Confirm runs confirm (a user-facing y/n prompt) at most once per process,
// caching the decision for every subsequent call. confirm is only invoked
// if Available() and no prior decision was cached.
func (g *Gate) Confirm(confirm func() bool) bool {
	if !g.Available() {
		return false
	}
	g.mu.Lock()
	if g.confirmed {
		g.mu.Unlock()
		return true
	}
	if g.declined {
		g.mu.Unlock()
		return false
	}
	g.mu.Unlock()

	v, _, _ := g.group.Do("confirm", func() (interface{}, error) {
		ok := confirm()
		g.mu.Lock()
		if ok {
			g.confirmed = true
		} else {
			g.declined = true
		}
		g.mu.Unlock()
		return ok, nil
	})
	return v.(bool)
}

// APIKey returns the gated API key, for constructing a Client once Confirm
// has returned true.
func (g *Gate) APIKey() string { return g.apiKey }
