package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Claim the game id first so concurrent creates cannot both succeed
	claimed, err := s.client.SetNX(ctx, gameIDIndexKey(player.GameID), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrDuplicateGameID
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.ZAdd(ctx, playersByUpdatedKey(), redis.Z{Score: updatedScore(player), Member: string(player.ID)})
	if _, err := pipe.Exec(ctx); err != nil {
		// Release the claim so the game id can be retried
		s.client.Del(ctx, gameIDIndexKey(player.GameID))
		return err
	}
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player, expectedVersion int64) error {
	key := playerKey(player.ID)
	var newVersion int64

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var current model.Player
		if err := json.Unmarshal(data, &current); err != nil {
			return err
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

		encoded, err := json.Marshal(updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			pipe.ZAdd(ctx, playersByUpdatedKey(), redis.Z{Score: updatedScore(updated), Member: string(updated.ID)})
			return nil
		})
		newVersion = updated.Version
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	player.Version = newVersion
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByGameID(ctx context.Context, gameID string) (*model.Player, error) {
	// Look up player ID from game id index
	id, err := s.client.Get(ctx, gameIDIndexKey(gameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.ZRevRange(ctx, playersByUpdatedKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}

	// Equal scores come back in reverse member order; keep ids ascending like the other stores
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].UpdatedAt.Equal(players[j].UpdatedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].UpdatedAt.After(players[j].UpdatedAt)
	})
	return players, nil
}

// updatedScore is the ZSET score of a player, in unix milliseconds
func updatedScore(player *model.Player) float64 {
	return float64(player.UpdatedAt.UnixMilli())
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, profileKey(profile.UserID), data, 0)
	pipe.SAdd(ctx, profilesIndexKey(), string(profile.UserID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	userIDs, err := s.client.SMembers(ctx, profilesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(userIDs) == 0 {
		return []*model.Profile{}, nil
	}

	sort.Strings(userIDs)
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = profileKey(model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.Profile, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var profile model.Profile
		if err := json.Unmarshal([]byte(val.(string)), &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, accountKey(account.Email), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrEmailExists
	}
	return nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, email string) error {
	return s.client.Del(ctx, accountKey(email)).Err()
}
