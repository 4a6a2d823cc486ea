// Package session holds the per-terminal state that the browser UI used to
// keep in ambient storage: the operator identity, the selected warehouse, the
// cart, and an open checkout dialog. Sessions are in-memory only; a process
// restart drops every draft, matching the no-local-persistence contract.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmdiallo/gescom-pos/internal/domain/cart"
	"github.com/kmdiallo/gescom-pos/internal/domain/checkout"
)

// Operator is the explicit typed identity of the person driving the terminal,
// replacing ambient user/session globals.
type Operator struct {
	Role     string
	Email    string
	Username string
}

// Session is one open terminal session. Command handlers serialize on mu so
// two rapid commands for the same session cannot interleave their
// availability checks against the same cart.
type Session struct {
	Token       string
	Operator    Operator
	WarehouseID int64
	Cart        *cart.Cart

	// Checkout is the open finalize dialog, nil while closed.
	Checkout *checkout.Flow

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes command execution for this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the command lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store keeps open sessions keyed by token and evicts idle ones.
type Store struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a Store evicting sessions idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for the operator against the selected warehouse and
// returns it with a fresh token.
func (st *Store) Open(op Operator, warehouseID int64) *Session {
	s := &Session{
		Token:       uuid.New().String(),
		Operator:    op,
		WarehouseID: warehouseID,
		Cart:        cart.New(),
		lastSeen:    time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.Token] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for token and marks it as active.
func (st *Store) Get(token string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[token]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s, true
}

// Close removes the session for token. Closing an unknown token is a no-op.
func (st *Store) Close(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// Len returns the number of open sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweeper evicts idle sessions every interval until ctx is cancelled.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				st.sweep(now)
			}
		}
	}()
}

func (st *Store) sweep(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for token, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.sessions, token)
		}
	}
}
