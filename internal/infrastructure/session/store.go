package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// record holds the server-side state of one browser session. The auth token
// and the cached-user snapshot live here and nowhere else.
type record struct {
	token      string
	userJSON   []byte
	twoFACodes map[string]string
	lastSeen   time.Time
}

// Store is a thread-safe in-memory session store keyed by the opaque session
// ID carried in the browser cookie. Sessions expire after an idle timeout,
// independent of JWT expiry.
type Store struct {
	mu          sync.RWMutex
	records     map[string]*record
	idleTimeout time.Duration
	now         func() time.Time
}

// NewStore creates a session store with the given idle timeout.
func NewStore(idleTimeout time.Duration) *Store {
	s := &Store{
		records:     make(map[string]*record),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
	go s.cleanupLoop()
	return s
}

// newStoreForTest builds a store without the cleanup goroutine and with a
// controllable clock.
func newStoreForTest(idleTimeout time.Duration, now func() time.Time) *Store {
	return &Store{
		records:     make(map[string]*record),
		idleTimeout: idleTimeout,
		now:         now,
	}
}

// Open returns the session for id, creating it when absent or idle-expired.
// A fresh ID is issued for expired sessions so stale cookies never resurrect
// old auth state. Every call counts as activity for the idle timeout.
func (s *Store) Open(id string) (string, *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if r, ok := s.records[id]; ok && s.now().Sub(r.lastSeen) <= s.idleTimeout {
			r.lastSeen = s.now()
			return id, &Scope{store: s, id: id}
		}
		delete(s.records, id)
	}

	id = uuid.NewString()
	s.records[id] = &record{lastSeen: s.now()}
	return id, &Scope{store: s, id: id}
}

// get returns the live record for id, or nil when missing or idle-expired.
func (s *Store) get(id string) *record {
	r, ok := s.records[id]
	if !ok || s.now().Sub(r.lastSeen) > s.idleTimeout {
		return nil
	}
	return r
}

// cleanup removes idle-expired sessions.
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, r := range s.records {
		if now.Sub(r.lastSeen) > s.idleTimeout {
			delete(s.records, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of idle sessions.
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// Scope is the per-request view of one session. Implements domain.TokenStore.
type Scope struct {
	store *Store
	id    string
}

// ID returns the opaque session identifier stored in the cookie.
func (sc *Scope) ID() string {
	return sc.id
}

// Token returns the stored bearer token, if any.
func (sc *Scope) Token() (string, bool) {
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()

	r := sc.store.get(sc.id)
	if r == nil || r.token == "" {
		return "", false
	}
	return r.token, true
}

// SetToken stores the bearer token for this session.
func (sc *Scope) SetToken(token string) {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	if r := sc.store.get(sc.id); r != nil {
		r.token = token
	}
}

// UserJSON returns the cached-user snapshot, if any.
func (sc *Scope) UserJSON() ([]byte, bool) {
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()

	r := sc.store.get(sc.id)
	if r == nil || len(r.userJSON) == 0 {
		return nil, false
	}
	return r.userJSON, true
}

// SetUserJSON stores the serialized identity snapshot.
func (sc *Scope) SetUserJSON(data []byte) {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	if r := sc.store.get(sc.id); r != nil {
		r.userJSON = data
	}
}

// TwoFactorCode returns the pending 2FA code stored for the user, if any.
func (sc *Scope) TwoFactorCode(usuarioID string) (string, bool) {
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()

	r := sc.store.get(sc.id)
	if r == nil {
		return "", false
	}
	code, ok := r.twoFACodes[usuarioID]
	return code, ok
}

// SetTwoFactorCode stores a pending 2FA code for the user. The code lives
// and dies with the session.
func (sc *Scope) SetTwoFactorCode(usuarioID, code string) {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	if r := sc.store.get(sc.id); r != nil {
		if r.twoFACodes == nil {
			r.twoFACodes = make(map[string]string)
		}
		r.twoFACodes[usuarioID] = code
	}
}

// ClearTwoFactorCode discards the pending 2FA code for the user.
func (sc *Scope) ClearTwoFactorCode(usuarioID string) {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	if r := sc.store.get(sc.id); r != nil {
		delete(r.twoFACodes, usuarioID)
	}
}

// Clear removes the token, the user snapshot and any pending 2FA codes.
// Logout is purely session-local: a leaked JWT stays valid until its natural
// expiry.
func (sc *Scope) Clear() {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	if r, ok := sc.store.records[sc.id]; ok {
		r.token = ""
		r.userJSON = nil
		r.twoFACodes = nil
	}
}
