package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/cache"
)

const sessionKeyPrefix = "session:"

// Session is the server-side state bound to an opaque client token.
type Session struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	Create(ctx context.Context, userID uint, username string) (token string, err error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionStore keeps sessions in Redis keyed by an opaque token. A missing
// or unreachable Redis makes every session look absent, which downstream
// turns into 401 rather than a crash.
type SessionStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

// Create stores a fresh session and returns its opaque token.
func (s *SessionStore) Create(ctx context.Context, userID uint, username string) (string, error) {
	session := Session{UserID: userID, Username: username}
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, payload, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get returns the session for a token, or an error when none exists.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil || data == nil {
		return nil, fmt.Errorf("session not found")
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete destroys the session, discarding all state tied to the token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}
