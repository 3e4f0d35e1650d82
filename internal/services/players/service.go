// Package players coordinates entry log formatting with the rest of a player record.
package players

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/pokernotes/internal/dependencies/clock"
	"github.com/mcoot/pokernotes/internal/dependencies/random"
	"github.com/mcoot/pokernotes/internal/entrylog"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/profiles"
	"github.com/mcoot/pokernotes/internal/storage"
)

const (
	// DefaultMaxAttempts bounds how often an edit is re-applied after a concurrent update
	DefaultMaxAttempts = 3

	fieldNotes = "notes"
	fieldTells = "tells"
)

// CreateInput is a new player record as submitted
type CreateInput struct {
	GameID    string
	Nickname  string
	PlayStyle string
	Notes     string
	Tells     string
}

// EditInput is a change to an existing record.
// The game id cannot be changed; NewNotes and NewTells are appended as attributed entries.
type EditInput struct {
	Nickname  string
	PlayStyle string
	NewNotes  string
	NewTells  string
	// ExpectedVersion, when set, must match the stored version or the edit fails with KindConflict
	ExpectedVersion *int64
}

// View is a player with its logs parsed for display
type View struct {
	Player          *model.Player
	Notes           []entrylog.Entry
	Tells           []entrylog.Entry
	CreatorNickname string
	UpdaterNickname string
}

// Stats summarises all tracked players
type Stats struct {
	Total int
	// MostCommonStyle is empty when there are no players
	MostCommonStyle model.PlayStyle
}

// Config holds configuration for the player service
type Config struct {
	// Location is the time zone of entry timestamps
	Location    *time.Location
	MaxAttempts int
}

// DefaultConfig returns default player service configuration
func DefaultConfig() Config {
	return Config{
		Location:    time.UTC,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Service creates, edits and reads player records
type Service struct {
	storage  storage.Storage
	profiles *profiles.Service
	clock    clock.Clock
	random   random.Random
	metrics  *metrics.Metrics
	logger   *slog.Logger

	location    *time.Location
	maxAttempts int
}

// New creates a new player Service
func New(
	store storage.Storage,
	profileService *profiles.Service,
	clk clock.Clock,
	rnd random.Random,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = DefaultConfig().Location
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Service{
		storage:     store,
		profiles:    profileService,
		clock:       clk,
		random:      rnd,
		metrics:     m,
		logger:      logger.With(slog.String("component", "player-service")),
		location:    cfg.Location,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Create stores a new player. The notes and tells are stored as the trimmed fragments,
// without attribution.
func (s *Service) Create(ctx context.Context, actor model.Identity, input CreateInput) (*model.Player, error) {
	gameID := strings.TrimSpace(input.GameID)
	if gameID == "" {
		return nil, s.fail("create", validationError("game id is required", nil))
	}

	style, err := model.ParsePlayStyle(input.PlayStyle)
	if err != nil {
		return nil, s.fail("create", Classify(err))
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(s.random.ID()),
		GameID:    gameID,
		Nickname:  strings.TrimSpace(input.Nickname),
		PlayStyle: style,
		Notes:     entrylog.Initial(input.Notes),
		Tells:     entrylog.Initial(input.Tells),
		CreatedBy: actor.UserID,
		UpdatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, s.fail("create", Classify(err))
	}

	s.metrics.PlayerSaved("create")
	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("game_id", player.GameID),
		slog.String("user_id", string(actor.UserID)),
	)
	return player, nil
}

// Edit replaces the nickname and play style of a player and appends any new notes
// and tells under the actor's nickname. A concurrent update causes the edit to be
// re-applied to the fresh record, unless the caller pinned ExpectedVersion.
func (s *Service) Edit(ctx context.Context, actor model.Identity, id model.PlayerID, input EditInput) (*model.Player, error) {
	style, err := model.ParsePlayStyle(input.PlayStyle)
	if err != nil {
		return nil, s.fail("edit", Classify(err))
	}

	author := s.authorName(ctx, actor)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		current, err := s.storage.GetPlayer(ctx, id)
		if err != nil {
			return nil, s.fail("edit", Classify(err))
		}
		if input.ExpectedVersion != nil && *input.ExpectedVersion != current.Version {
			return nil, s.fail("edit", Classify(model.ErrVersionConflict))
		}

		now := s.clock.Now()
		timestamp := entrylog.Timestamp(now, s.location)

		updated := current.Clone()
		updated.Nickname = strings.TrimSpace(input.Nickname)
		updated.PlayStyle = style
		updated.Notes = entrylog.Append(current.Notes, input.NewNotes, author, timestamp)
		updated.Tells = entrylog.Append(current.Tells, input.NewTells, author, timestamp)
		updated.UpdatedBy = actor.UserID
		updated.UpdatedAt = now

		err = s.storage.UpdatePlayer(ctx, updated, current.Version)
		if err == nil {
			s.recordAppends(current, updated)
			s.metrics.PlayerSaved("edit")
			s.logger.Info("player updated",
				slog.String("player_id", string(id)),
				slog.String("user_id", string(actor.UserID)),
				slog.Int64("version", updated.Version),
			)
			return updated, nil
		}

		if !errors.Is(err, model.ErrVersionConflict) || input.ExpectedVersion != nil {
			return nil, s.fail("edit", Classify(err))
		}

		s.metrics.AppendRetried()
		s.logger.Debug("player changed concurrently, retrying edit",
			slog.String("player_id", string(id)),
			slog.Int("attempt", attempt),
		)
	}

	return nil, s.fail("edit", Classify(model.ErrVersionConflict))
}

// Get returns the raw player record
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, classifyRead(err)
	}
	return player, nil
}

// GetByGameID returns the raw player record tracked under a game id
func (s *Service) GetByGameID(ctx context.Context, gameID string) (*model.Player, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, validationError("game id is required", nil)
	}
	player, err := s.storage.GetPlayerByGameID(ctx, gameID)
	if err != nil {
		return nil, classifyRead(err)
	}
	return player, nil
}

// View returns a player with parsed notes and tells and the creator's nickname
func (s *Service) View(ctx context.Context, id model.PlayerID) (*View, error) {
	player, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, player), nil
}

// ViewByGameID is View for a player looked up by game id
func (s *Service) ViewByGameID(ctx context.Context, gameID string) (*View, error) {
	player, err := s.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, player), nil
}

func (s *Service) view(ctx context.Context, player *model.Player) *View {
	return &View{
		Player:          player,
		Notes:           entrylog.Parse(player.Notes),
		Tells:           entrylog.Parse(player.Tells),
		CreatorNickname: s.profiles.Nickname(ctx, player.CreatedBy),
		UpdaterNickname: s.profiles.Nickname(ctx, player.UpdatedBy),
	}
}

// List returns players most recently updated first.
// A non-blank search keeps players whose nickname or game id contains it, ignoring case.
func (s *Service) List(ctx context.Context, search string) ([]*model.Player, error) {
	all, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, classifyRead(err)
	}

	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return all, nil
	}

	matched := make([]*model.Player, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Nickname), query) ||
			strings.Contains(strings.ToLower(p.GameID), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Stats counts the players and finds the most common play style.
// Ties go to the style of the most recently updated player among them.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, classifyRead(err)
	}

	counts := make(map[model.PlayStyle]int)
	highest := 0
	for _, p := range all {
		counts[p.PlayStyle]++
		if counts[p.PlayStyle] > highest {
			highest = counts[p.PlayStyle]
		}
	}

	stats := &Stats{Total: len(all)}
	for _, p := range all {
		if counts[p.PlayStyle] == highest {
			stats.MostCommonStyle = p.PlayStyle
			break
		}
	}
	return stats, nil
}

// authorName is the nickname written into entry headers
func (s *Service) authorName(ctx context.Context, actor model.Identity) string {
	nickname := s.profiles.Nickname(ctx, actor.UserID)
	if nickname == profiles.UnknownNickname && actor.Nickname != "" {
		return actor.Nickname
	}
	return nickname
}

func (s *Service) recordAppends(before, after *model.Player) {
	if after.Notes != before.Notes {
		s.metrics.EntryAppended(fieldNotes)
	}
	if after.Tells != before.Tells {
		s.metrics.EntryAppended(fieldTells)
	}
}

// fail records a classified error and returns it
func (s *Service) fail(op string, err error) error {
	kind := KindOf(err)
	s.metrics.SaveFailed(string(kind))
	if kind == KindUnknown {
		s.logger.Error("player save failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
	return err
}
