package storage

import (
	"context"

	"github.com/mcoot/pokernotes/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations enforce uniqueness of Player.GameID, Profile.UserID and Account.Email,
// and report a missing schema as model.ErrStoreNotInitialized.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error
	// UpdatePlayer replaces the stored player if its version still equals
	// expectedVersion, otherwise returns model.ErrVersionConflict. On success the
	// stored version is expectedVersion+1 and player.Version is updated to match.
	UpdatePlayer(ctx context.Context, player *model.Player, expectedVersion int64) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByGameID(ctx context.Context, gameID string) (*model.Player, error)
	// ListPlayers returns all players, most recently updated first
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, userID model.UserID) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)

	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	// DeleteAccount removes the account registered to email. Deleting a missing account is not an error.
	DeleteAccount(ctx context.Context, email string) error
}
