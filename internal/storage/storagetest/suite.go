// Package storagetest holds the behavior suite every storage backend must pass.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage"
)

// Suite runs the shared storage contract against the Storage set by the embedding suite.
// Embedding suites assign Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) newPlayer(id, gameID string, updatedAt time.Time) *model.Player {
	return &model.Player{
		ID:        model.PlayerID(id),
		GameID:    gameID,
		Nickname:  "Nick " + gameID,
		PlayStyle: model.PlayStyleBalanced,
		Notes:     "first read",
		Tells:     "",
		CreatedBy: "user-1",
		UpdatedBy: "user-1",
		CreatedAt: baseTime,
		UpdatedAt: updatedAt,
	}
}

func (s *Suite) ctx() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	player := s.newPlayer("p-1", "shark99", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), player))

	got, err := s.Storage.GetPlayer(s.ctx(), "p-1")
	s.Require().NoError(err)
	s.Equal("shark99", got.GameID)
	s.Equal("Nick shark99", got.Nickname)
	s.Equal(model.PlayStyleBalanced, got.PlayStyle)
	s.Equal("first read", got.Notes)
	s.Equal(model.UserID("user-1"), got.CreatedBy)
	s.True(baseTime.Equal(got.CreatedAt), "created at %v", got.CreatedAt)
	s.Equal(int64(0), got.Version)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.ctx(), "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateGameID() {
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-1", "shark99", baseTime)))

	err := s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-2", "shark99", baseTime))
	s.ErrorIs(err, model.ErrDuplicateGameID)

	_, err = s.Storage.GetPlayer(s.ctx(), "p-2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByGameID() {
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-1", "shark99", baseTime)))

	got, err := s.Storage.GetPlayerByGameID(s.ctx(), "shark99")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), got.ID)

	_, err = s.Storage.GetPlayerByGameID(s.ctx(), "fish01")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayerIncrementsVersion() {
	player := s.newPlayer("p-1", "shark99", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), player))

	player.Nickname = "Renamed"
	player.PlayStyle = model.PlayStyleAggressive
	player.Notes = "first read\n\n[t - Bob]\nmore"
	player.UpdatedBy = "user-2"
	player.UpdatedAt = baseTime.Add(time.Hour)
	s.Require().NoError(s.Storage.UpdatePlayer(s.ctx(), player, 0))
	s.Equal(int64(1), player.Version)

	got, err := s.Storage.GetPlayer(s.ctx(), "p-1")
	s.Require().NoError(err)
	s.Equal("Renamed", got.Nickname)
	s.Equal(model.PlayStyleAggressive, got.PlayStyle)
	s.Equal("first read\n\n[t - Bob]\nmore", got.Notes)
	s.Equal(model.UserID("user-2"), got.UpdatedBy)
	s.Equal(int64(1), got.Version)
	s.True(baseTime.Add(time.Hour).Equal(got.UpdatedAt), "updated at %v", got.UpdatedAt)
}

func (s *Suite) TestUpdatePlayerStaleVersion() {
	player := s.newPlayer("p-1", "shark99", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), player))

	first := player.Clone()
	first.Notes = "from first writer"
	s.Require().NoError(s.Storage.UpdatePlayer(s.ctx(), first, 0))

	second := player.Clone()
	second.Notes = "from second writer"
	err := s.Storage.UpdatePlayer(s.ctx(), second, 0)
	s.ErrorIs(err, model.ErrVersionConflict)

	got, err := s.Storage.GetPlayer(s.ctx(), "p-1")
	s.Require().NoError(err)
	s.Equal("from first writer", got.Notes)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	err := s.Storage.UpdatePlayer(s.ctx(), s.newPlayer("missing", "ghost", baseTime), 0)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayerKeepsGameIDAndCreator() {
	player := s.newPlayer("p-1", "shark99", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), player))

	changed := player.Clone()
	changed.GameID = "other"
	changed.CreatedBy = "user-9"
	s.Require().NoError(s.Storage.UpdatePlayer(s.ctx(), changed, 0))

	got, err := s.Storage.GetPlayer(s.ctx(), "p-1")
	s.Require().NoError(err)
	s.Equal("shark99", got.GameID)
	s.Equal(model.UserID("user-1"), got.CreatedBy)

	byGameID, err := s.Storage.GetPlayerByGameID(s.ctx(), "shark99")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), byGameID.ID)
}

func (s *Suite) TestListPlayersMostRecentFirst() {
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-1", "old", baseTime)))
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-2", "newest", baseTime.Add(2*time.Hour))))
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-3", "middle", baseTime.Add(time.Hour))))

	players, err := s.Storage.ListPlayers(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("newest", players[0].GameID)
	s.Equal("middle", players[1].GameID)
	s.Equal("old", players[2].GameID)
}

func (s *Suite) TestListPlayersReflectsUpdates() {
	first := s.newPlayer("p-1", "first", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), first))
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), s.newPlayer("p-2", "second", baseTime.Add(time.Minute))))

	first.UpdatedAt = baseTime.Add(time.Hour)
	s.Require().NoError(s.Storage.UpdatePlayer(s.ctx(), first, 0))

	players, err := s.Storage.ListPlayers(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("first", players[0].GameID)
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Storage.ListPlayers(s.ctx())
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestConcurrentUpdatesOnlyOneWinsPerVersion() {
	player := s.newPlayer("p-1", "shark99", baseTime)
	s.Require().NoError(s.Storage.CreatePlayer(s.ctx(), player))

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := player.Clone()
			if err := s.Storage.UpdatePlayer(s.ctx(), p, 0); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
}

// Profile tests

func (s *Suite) TestSaveAndGetProfile() {
	profile := &model.Profile{ID: "pr-1", UserID: "user-1", Nickname: "Alice", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), profile))

	got, err := s.Storage.GetProfile(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.Nickname)
	s.Equal("pr-1", got.ID)
}

func (s *Suite) TestSaveProfileOverwritesNickname() {
	profile := &model.Profile{ID: "pr-1", UserID: "user-1", Nickname: "Alice", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), profile))

	profile.Nickname = "Alicia"
	profile.UpdatedAt = baseTime.Add(time.Hour)
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), profile))

	got, err := s.Storage.GetProfile(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal("Alicia", got.Nickname)

	all, err := s.Storage.ListProfiles(s.ctx())
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestGetProfileNotFound() {
	_, err := s.Storage.GetProfile(s.ctx(), "nobody")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *Suite) TestListProfiles() {
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), &model.Profile{ID: "pr-1", UserID: "user-1", Nickname: "Alice", CreatedAt: baseTime, UpdatedAt: baseTime}))
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), &model.Profile{ID: "pr-2", UserID: "user-2", Nickname: "Bob", CreatedAt: baseTime, UpdatedAt: baseTime}))

	profiles, err := s.Storage.ListProfiles(s.ctx())
	s.Require().NoError(err)
	s.Len(profiles, 2)

	names := []string{profiles[0].Nickname, profiles[1].Nickname}
	s.ElementsMatch([]string{"Alice", "Bob"}, names)
}

// Account tests

func (s *Suite) TestCreateAndGetAccount() {
	account := &model.Account{UserID: "user-1", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: baseTime}
	s.Require().NoError(s.Storage.CreateAccount(s.ctx(), account))

	got, err := s.Storage.GetAccountByEmail(s.ctx(), "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), got.UserID)
	s.Equal("hash", got.PasswordHash)
}

func (s *Suite) TestCreateAccountDuplicateEmail() {
	s.Require().NoError(s.Storage.CreateAccount(s.ctx(), &model.Account{UserID: "user-1", Email: "alice@example.com", PasswordHash: "h1", CreatedAt: baseTime}))

	err := s.Storage.CreateAccount(s.ctx(), &model.Account{UserID: "user-2", Email: "alice@example.com", PasswordHash: "h2", CreatedAt: baseTime})
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *Suite) TestDeleteAccountFreesEmail() {
	s.Require().NoError(s.Storage.CreateAccount(s.ctx(), &model.Account{UserID: "user-1", Email: "alice@example.com", PasswordHash: "h1", CreatedAt: baseTime}))
	s.Require().NoError(s.Storage.DeleteAccount(s.ctx(), "alice@example.com"))

	_, err := s.Storage.GetAccountByEmail(s.ctx(), "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	s.NoError(s.Storage.CreateAccount(s.ctx(), &model.Account{UserID: "user-2", Email: "alice@example.com", PasswordHash: "h2", CreatedAt: baseTime}))
}

func (s *Suite) TestDeleteMissingAccount() {
	s.NoError(s.Storage.DeleteAccount(s.ctx(), "nobody@example.com"))
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Storage.GetAccountByEmail(s.ctx(), "nobody@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
