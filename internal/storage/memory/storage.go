package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.Player
	gameIDIndex map[string]model.PlayerID
	profiles    map[model.UserID]*model.Profile
	accounts    map[string]*model.Account // keyed by email
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.Player),
		gameIDIndex: make(map[string]model.PlayerID),
		profiles:    make(map[model.UserID]*model.Profile),
		accounts:    make(map[string]*model.Account),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gameIDIndex[player.GameID]; ok {
		return model.ErrDuplicateGameID
	}
	s.players[player.ID] = player.Clone()
	s.gameIDIndex[player.GameID] = player.ID
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if current.Version != expectedVersion {
		return model.ErrVersionConflict
	}

	updated := player.Clone()
	// game id and creator are fixed at creation
	updated.GameID = current.GameID
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	updated.Version = expectedVersion + 1

	s.players[player.ID] = updated
	player.Version = updated.Version
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByGameID(ctx context.Context, gameID string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.gameIDIndex[gameID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.players[id].Clone(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].UpdatedAt.Equal(players[j].UpdatedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].UpdatedAt.After(players[j].UpdatedAt)
	})
	return players, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *profile
	s.profiles[profile.UserID] = &p
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	p := *profile
	return &p, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]*model.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		p := *profile
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Email]; ok {
		return model.ErrEmailExists
	}
	a := *account
	s.accounts[account.Email] = &a
	return nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, email)
	return nil
}
