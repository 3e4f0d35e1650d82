package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pokernotes/internal/dependencies/clock"
	"github.com/mcoot/pokernotes/internal/dependencies/random"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/profiles"
	"github.com/mcoot/pokernotes/internal/storage"
)

// MinPasswordLength is the shortest password accepted at sign up
const MinPasswordLength = 6

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// Session is the signed-in identity behind a token.
// It lives from SignIn or SignUp until SignOut or expiry.
type Session struct {
	Token     string
	Identity  model.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles sign up, sign in and session management
type Service struct {
	storage  storage.Storage
	profiles *profiles.Service
	clock    clock.Clock
	random   random.Random
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	bcryptCost      int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	BcryptCost      int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(
	store storage.Storage,
	profileService *profiles.Service,
	clk clock.Clock,
	rnd random.Random,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:         store,
		profiles:        profileService,
		clock:           clk,
		random:          rnd,
		metrics:         m,
		logger:          logger.With(slog.String("component", "auth-service")),
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		bcryptCost:      cfg.BcryptCost,
	}
}

// SignUp creates an account and its profile, then signs the new identity in
func (s *Service) SignUp(ctx context.Context, email, password, nickname string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, profiles.ErrNicknameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	userID := model.UserID(s.random.ID())
	account := &model.Account{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Create(ctx, userID, nickname)
	if err != nil {
		if delErr := s.storage.DeleteAccount(ctx, email); delErr != nil {
			s.logger.Error("failed to remove account after profile error",
				slog.String("user_id", string(userID)),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("account created",
		slog.String("user_id", string(userID)),
		slog.String("nickname", profile.Nickname),
	)

	return s.createSession(model.Identity{UserID: userID, Nickname: profile.Nickname}), nil
}

// SignIn authenticates an account and creates a session
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	nickname := s.profiles.Nickname(ctx, account.UserID)
	return s.createSession(model.Identity{UserID: account.UserID, Nickname: nickname}), nil
}

// SignOut removes a session
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.SignOut(token)
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Authenticate validates token once and returns its session with the current identity.
// The nickname is read from the profile directory so renames apply immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, *model.Identity, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, nil, err
	}

	identity := session.Identity
	if profile, err := s.profiles.Get(ctx, identity.UserID); err == nil {
		identity.Nickname = profile.Nickname
	}
	return session, &identity, nil
}

// CurrentUser returns the identity signed in with token
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.Identity, error) {
	_, identity, err := s.Authenticate(ctx, token)
	return identity, err
}

// createSession creates a new session for an identity
func (s *Service) createSession(identity model.Identity) *Session {
	now := s.clock.Now()

	session := &Session{
		Token:     s.random.Token("sess_"),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	return session
}

// CleanExpiredSessions removes expired sessions (call periodically) and returns how many were removed
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	return removed
}

// normalizeEmail validates an address and returns it trimmed and lowercased
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
