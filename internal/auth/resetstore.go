package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const resetTokenBytes = 32

type resetEntry struct {
	userID    string
	expiresAt time.Time
}

// ResetStore holds in-flight password-reset tokens in memory. Entries are
// ephemeral by design: they do not survive a process restart.
//
// Keying policy: entries are keyed by token, with at most one live entry per
// user — issuing a new token invalidates the user's previous one. Redemption
// consumes the entry; exactly one of N concurrent redeemers of the same token
// wins, the rest observe ErrResetTokenNotFound.
//
// All critical sections are short map operations. Token generation and any
// hashing or I/O happen outside the lock.
type ResetStore struct {
	mu     sync.Mutex
	tokens map[string]resetEntry
	byUser map[string]string

	ttl time.Duration
	now func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	sweeping bool
}

func NewResetStore(ttl time.Duration) *ResetStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResetStore{
		tokens: make(map[string]resetEntry),
		byUser: make(map[string]string),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Issue generates an unguessable token for the user and records it with the
// store's default TTL.
func (s *ResetStore) Issue(userID string) (string, error) {
	return s.IssueWithTTL(userID, s.ttl)
}

func (s *ResetStore) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	expiresAt := s.now().Add(ttl)
	for {
		token, err := newResetToken()
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		if _, exists := s.tokens[token]; exists {
			s.mu.Unlock()
			continue
		}
		if prev, ok := s.byUser[userID]; ok {
			delete(s.tokens, prev)
		}
		s.tokens[token] = resetEntry{userID: userID, expiresAt: expiresAt}
		s.byUser[userID] = token
		s.mu.Unlock()
		return token, nil
	}
}

// Redeem atomically consumes the entry for token and returns the owning user.
// An expired entry is removed as a side effect of the check, so a second
// attempt reports ErrResetTokenNotFound rather than ErrResetTokenExpired.
func (s *ResetStore) Redeem(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", ErrResetTokenNotFound
	}
	s.removeLocked(token, entry)
	if s.now().After(entry.expiresAt) {
		return "", ErrResetTokenExpired
	}
	return entry.userID, nil
}

// Invalidate removes the entry for token, if any. Used when the reset link
// could not be delivered and the token must not remain redeemable.
func (s *ResetStore) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.tokens[token]; ok {
		s.removeLocked(token, entry)
	}
}

// Len reports the number of entries, including any not yet swept expired ones.
func (s *ResetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// StartSweeper launches a background goroutine that periodically drops stale
// entries. The sweep is resource hygiene only; correctness is enforced lazily
// on Redeem. Stop terminates the goroutine.
func (s *ResetStore) StartSweeper(interval time.Duration) {
	s.sweeping = true
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop shuts down the sweeper, if one was started, and waits for it to exit.
func (s *ResetStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.sweeping {
		<-s.done
	}
}

func (s *ResetStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.tokens {
		if now.After(entry.expiresAt) {
			s.removeLocked(token, entry)
		}
	}
}

func (s *ResetStore) removeLocked(token string, entry resetEntry) {
	delete(s.tokens, token)
	if s.byUser[entry.userID] == token {
		delete(s.byUser, entry.userID)
	}
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
