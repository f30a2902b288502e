package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/codaipro/gateway/internal/config"
	"github.com/codaipro/gateway/internal/infrastructure/redis"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const cookieLifetime = 1 * time.Hour

// Session identifies one anonymous widget visitor. Expiry is a pure
// function of the stored timestamp and the caller's clock, so it can be
// tested without a real store.
type Session struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the
// given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Store persists widget sessions keyed by session ID.
type Store interface {
	Set(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(redisService *redis.Service) *Service {
	var store Store
	if redisService != nil {
		// Test Redis connection
		ctx := context.Background()
		if err := redisService.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable - widget sessions held in memory")
			store = newMemoryStore()
		} else {
			store = &RedisStore{redisService: redisService}
		}
	} else {
		store = newMemoryStore()
	}

	return &Service{store: store, now: time.Now}
}

// NewServiceWithStore builds a session service over an injected store.
// Used by tests and by embedders that bring their own persistence.
func NewServiceWithStore(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func newMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, "session:"+session.ID, string(data), cookieLifetime)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := rs.redisService.Get(ctx, "session:"+sessionID)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, "session:"+sessionID)
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, session *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[session.ID] = session
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	session, exists := ms.sessions[sessionID]
	if !exists {
		return nil, nil
	}
	return session, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// NewSession generates a widget session and the signed cookie that
// carries it. The caller decides how the cookie reaches the client;
// WebSocket handshakes cannot use a plain ResponseWriter.
func (s *Service) NewSession(ctx context.Context) (*Session, *http.Cookie, error) {
	session := &Session{
		ID:        uuid.New().String(),
		ExpiresAt: s.now().Add(cookieLifetime),
	}

	if err := s.store.Set(ctx, session); err != nil {
		return nil, nil, err
	}

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ID:        session.ID,
		},
		SessionID: session.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return nil, nil, err
	}

	cookie := &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  session.ExpiresAt,
	}

	return session, cookie, nil
}

// CreateSession generates a new widget session and sets its cookie in
// the response
func (s *Service) CreateSession(w http.ResponseWriter) (*Session, error) {
	session, cookie, err := s.NewSession(context.Background())
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, cookie)
	return session, nil
}

// ValidateSession checks if a valid session cookie exists and returns
// the stored session, or nil when absent or expired
func (s *Service) ValidateSession(r *http.Request) (*Session, error) {
	ctx := r.Context()

	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil {
		if err == http.ErrNoCookie {
			return nil, nil
		}
		return nil, err
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	})
	if err != nil {
		return nil, nil
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, nil
	}

	session, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(s.now()) {
		return nil, nil
	}

	return session, nil
}

// EnsureSession returns the request's session, creating one when the
// cookie is missing, invalid, or expired
func (s *Service) EnsureSession(w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := s.ValidateSession(r)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	return s.CreateSession(w)
}

// ClearSession removes the session cookie and the stored session
func (s *Service) ClearSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(config.GetSessionCookieName()); err == nil {
		if token, err := jwt.ParseWithClaims(cookie.Value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
			return config.GetJWTSecret(), nil
		}); err == nil {
			if claims, ok := token.Claims.(*sessionClaims); ok {
				_ = s.store.Delete(ctx, claims.SessionID)
			}
		}
	}

	expired := &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}

	http.SetCookie(w, expired)
}
