package redis

import (
	"fmt"

	"github.com/mcoot/pokernotes/internal/model"
)

// Key prefix for all note data
const keyPrefix = "pnotes"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// gameIDIndexKey returns the Redis key for the game id -> player id index
func gameIDIndexKey(gameID string) string {
	return fmt.Sprintf("%s:idx:game_id:%s", keyPrefix, gameID)
}

// playersByUpdatedKey returns the Redis key for the ZSET of player ids scored by update time
func playersByUpdatedKey() string {
	return fmt.Sprintf("%s:idx:players_by_updated", keyPrefix)
}

// profileKey returns the Redis key for the Profile of a user
func profileKey(userID model.UserID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, userID)
}

// profilesIndexKey returns the Redis key for the SET of users with a profile
func profilesIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

// accountKey returns the Redis key for an Account, keyed by email
func accountKey(email string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, email)
}
