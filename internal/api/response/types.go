package response

import (
	"time"

	"github.com/mcoot/pokernotes/internal/entrylog"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/auth"
	"github.com/mcoot/pokernotes/internal/services/players"
)

// Entry kinds
const (
	EntryKindAttributed = "attributed"
	EntryKindLegacy     = "legacy"
)

// Identity represents the signed-in user
type Identity struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// IdentityFromModel converts a model.Identity
func IdentityFromModel(i *model.Identity) Identity {
	return Identity{
		UserID:   string(i.UserID),
		Nickname: i.Nickname,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         Identity  `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         IdentityFromModel(&s.Identity),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Player represents a player record in API responses
type Player struct {
	ID             string    `json:"id"`
	GameID         string    `json:"game_id"`
	Nickname       string    `json:"nickname"`
	PlayStyle      string    `json:"play_style"`
	PlayStyleLabel string    `json:"play_style_label"`
	Notes          string    `json:"notes"`
	Tells          string    `json:"tells"`
	CreatedBy      string    `json:"created_by"`
	UpdatedBy      string    `json:"updated_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int64     `json:"version"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:             string(p.ID),
		GameID:         p.GameID,
		Nickname:       p.Nickname,
		PlayStyle:      string(p.PlayStyle),
		PlayStyleLabel: p.PlayStyle.Label(),
		Notes:          p.Notes,
		Tells:          p.Tells,
		CreatedBy:      string(p.CreatedBy),
		UpdatedBy:      string(p.UpdatedBy),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// PlayerList is the response for listing players
type PlayerList struct {
	Players []Player `json:"players"`
	Count   int      `json:"count"`
}

// PlayerListFromModel converts a slice of players
func PlayerListFromModel(ps []*model.Player) PlayerList {
	list := PlayerList{Players: make([]Player, len(ps)), Count: len(ps)}
	for i, p := range ps {
		list.Players[i] = PlayerFromModel(p)
	}
	return list
}

// Entry is one parsed log entry. Timestamp and author are empty for legacy entries.
type Entry struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp,omitempty"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body"`
}

// EntriesFromLog converts parsed entries
func EntriesFromLog(entries []entrylog.Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		switch e := e.(type) {
		case entrylog.Attributed:
			out = append(out, Entry{Kind: EntryKindAttributed, Timestamp: e.Timestamp, Author: e.Author, Body: e.Body})
		case entrylog.Legacy:
			out = append(out, Entry{Kind: EntryKindLegacy, Body: e.Body})
		}
	}
	return out
}

// PlayerDetail is a player with parsed logs
type PlayerDetail struct {
	Player          Player  `json:"player"`
	NoteEntries     []Entry `json:"note_entries"`
	TellEntries     []Entry `json:"tell_entries"`
	CreatorNickname string  `json:"creator_nickname"`
	UpdaterNickname string  `json:"updater_nickname"`
}

// PlayerDetailFromView converts a players.View
func PlayerDetailFromView(v *players.View) PlayerDetail {
	return PlayerDetail{
		Player:          PlayerFromModel(v.Player),
		NoteEntries:     EntriesFromLog(v.Notes),
		TellEntries:     EntriesFromLog(v.Tells),
		CreatorNickname: v.CreatorNickname,
		UpdaterNickname: v.UpdaterNickname,
	}
}

// Stats is the response for the stats endpoint
type Stats struct {
	Total                int    `json:"total"`
	MostCommonStyle      string `json:"most_common_style,omitempty"`
	MostCommonStyleLabel string `json:"most_common_style_label,omitempty"`
}

// StatsFromModel converts players.Stats
func StatsFromModel(s *players.Stats) Stats {
	stats := Stats{Total: s.Total}
	if s.MostCommonStyle != "" {
		stats.MostCommonStyle = string(s.MostCommonStyle)
		stats.MostCommonStyleLabel = s.MostCommonStyle.Label()
	}
	return stats
}

// Profile represents a profile in API responses
type Profile struct {
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileFromModel converts a model.Profile
func ProfileFromModel(p *model.Profile) Profile {
	return Profile{
		UserID:    string(p.UserID),
		Nickname:  p.Nickname,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ProfileList is the response for listing profiles
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// ProfileListFromModel converts a slice of profiles
func ProfileListFromModel(ps []*model.Profile) ProfileList {
	list := ProfileList{Profiles: make([]Profile, len(ps))}
	for i, p := range ps {
		list.Profiles[i] = ProfileFromModel(p)
	}
	return list
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
