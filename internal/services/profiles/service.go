package profiles

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/pokernotes/internal/dependencies/clock"
	"github.com/mcoot/pokernotes/internal/dependencies/random"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage"
)

// UnknownNickname is shown when an identity has no profile
const UnknownNickname = "unknown"

// Errors
var (
	ErrNicknameRequired = errors.New("nickname is required")
)

// Service is the profile directory, resolving identities to display nicknames
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new profile Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "profile-service")),
	}
}

// Create stores the profile for a newly signed up identity
func (s *Service) Create(ctx context.Context, userID model.UserID, nickname string) (*model.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}

	now := s.clock.Now()
	profile := &model.Profile{
		ID:        s.random.ID(),
		UserID:    userID,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Get returns the profile of an identity
func (s *Service) Get(ctx context.Context, userID model.UserID) (*model.Profile, error) {
	return s.storage.GetProfile(ctx, userID)
}

// List returns every profile
func (s *Service) List(ctx context.Context) ([]*model.Profile, error) {
	return s.storage.ListProfiles(ctx)
}

// Nickname resolves an identity to its current nickname, or UnknownNickname
func (s *Service) Nickname(ctx context.Context, userID model.UserID) string {
	if userID == "" {
		return UnknownNickname
	}
	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			s.logger.Warn("failed to resolve nickname",
				slog.String("user_id", string(userID)),
				slog.String("error", err.Error()),
			)
		}
		return UnknownNickname
	}
	return profile.Nickname
}

// Rename changes the nickname of the acting identity's own profile.
// Entries already written keep the nickname captured when they were appended.
func (s *Service) Rename(ctx context.Context, actor model.Identity, nickname string) (*model.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}

	profile, err := s.storage.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	profile.Nickname = nickname
	profile.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile renamed",
		slog.String("user_id", string(actor.UserID)),
		slog.String("nickname", nickname),
	)
	return profile, nil
}
