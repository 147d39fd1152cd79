package plus

import (
	"log/slog"
	"sync"
)

// CredentialStore is the secret-store capability the session and
// authenticator depend on. The OS keyring adapter implements it.
type CredentialStore interface {
	GetPassword(account string) (string, error)
	DeletePassword(account string) error
}

// SessionState is an atomic snapshot of the session fields.
type SessionState struct {
	Token     string
	Nickname  string
	Password  string
	AccountID string
}

// Session holds the in-memory authentication state: the bearer token,
// nickname, cached password and account id. Every read and write goes
// through a single mutex so no caller ever observes a half-written
// token/nickname pair.
type Session struct {
	mu        sync.Mutex
	token     string
	nickname  string
	password  string
	accountID string

	store   CredentialStore
	account string
}

// NewSession creates an empty session for the given account. The store is
// used to remove the persisted password on Clear; both may be zero values
// for unauthenticated use.
func NewSession(store CredentialStore, account string) *Session {
	return &Session{store: store, account: account}
}

// Snapshot returns all four session fields read under one lock.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Token:     s.token,
		Nickname:  s.nickname,
		Password:  s.password,
		AccountID: s.accountID,
	}
}

// Token returns the current session token, or "" if unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Nickname returns the nickname delivered with the last token.
func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

// Password returns the cached account password, or "" if none is cached.
func (s *Session) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password
}

// AccountID returns the server-assigned account id, or "" if unknown.
func (s *Session) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID
}

// SetToken stores a new token and the nickname that came with it.
func (s *Session) SetToken(token, nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.nickname = nickname
}

// SetPassword caches the account password for re-authentication.
func (s *Session) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = password
}

// SetAccountID stores the server-assigned account id.
func (s *Session) SetAccountID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = id
}

// Clear wipes all session fields. When removeSecret is true the persisted
// password is also removed from the secret store; store failures are logged
// and do not block clearing the in-memory state.
func (s *Session) Clear(removeSecret bool) {
	slog.Info("clearing credentials")
	if removeSecret && s.store != nil && s.account != "" {
		if err := s.store.DeletePassword(s.account); err != nil {
			slog.Error("removing password from secret store failed", "error", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.nickname = ""
	s.password = ""
	s.accountID = ""
}
