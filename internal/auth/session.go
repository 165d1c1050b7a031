package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"worktrack/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionCookieName is the cookie carrying the signed session identifier.
const SessionCookieName = "worktrack_sid"

// Claims is the identity data captured in a session at login time. The role
// is not re-synced after login; only the name is rewritten on profile update.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// SessionStore defines server-side session operations.
type SessionStore interface {
	Create(ctx context.Context, claims Claims) (cookieValue string, err error)
	Get(ctx context.Context, cookieValue string) (*Claims, error)
	Destroy(ctx context.Context, cookieValue string) error
	UpdateName(ctx context.Context, cookieValue, name string) error
}

// RedisSessionStore keeps sessions in Redis keyed by an opaque identifier.
// The cookie value is the identifier plus an HMAC-SHA256 signature, so a
// tampered cookie never reaches Redis.
type RedisSessionStore struct {
	cache  *cache.Client
	secret []byte
	ttl    time.Duration
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(cache *cache.Client, secret string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		cache:  cache,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Create stores claims under a freshly minted session identifier and returns
// the signed cookie value. A prior identifier is never reused; callers must
// destroy any pre-login session themselves.
func (s *RedisSessionStore) Create(ctx context.Context, claims Claims) (string, error) {
	id := uuid.New().String()
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal session claims: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return s.sign(id), nil
}

// Get resolves a signed cookie value to claims. It returns nil claims with no
// error when the session is absent or the cookie signature does not verify.
func (s *RedisSessionStore) Get(ctx context.Context, cookieValue string) (*Claims, error) {
	id, ok := s.verify(cookieValue)
	if !ok {
		return nil, nil
	}
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, nil
	}
	return &claims, nil
}

// Destroy removes the server-side session record. Destroying an absent or
// tampered session is not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, cookieValue string) error {
	id, ok := s.verify(cookieValue)
	if !ok {
		return nil
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}

// UpdateName rewrites the cached name for an existing session, leaving the
// role as captured at login.
func (s *RedisSessionStore) UpdateName(ctx context.Context, cookieValue, name string) error {
	id, ok := s.verify(cookieValue)
	if !ok {
		return nil
	}
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil
	}
	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil
	}
	claims.Name = name
	payload, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("marshal session claims: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+id, payload, s.ttl)
}

// sign returns "<id>.<hex hmac>" using the configured session secret.
func (s *RedisSessionStore) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// verify splits a cookie value and checks its signature, returning the bare
// session identifier.
func (s *RedisSessionStore) verify(cookieValue string) (string, bool) {
	id, sig, ok := strings.Cut(cookieValue, ".")
	if !ok || id == "" {
		return "", false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	if !hmac.Equal(mac.Sum(nil), got) {
		return "", false
	}
	return id, true
}
