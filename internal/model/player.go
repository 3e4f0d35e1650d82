package model

import "time"

// PlayerID is the internal record id of a tracked player
type PlayerID string

// UserID identifies an authenticated account
type UserID string

// PlayStyle classifies a player's observed behavior
type PlayStyle string

const (
	PlayStyleTight      PlayStyle = "tight"
	PlayStyleLoose      PlayStyle = "loose"
	PlayStyleAggressive PlayStyle = "aggressive"
	PlayStylePassive    PlayStyle = "passive"
	PlayStyleBalanced   PlayStyle = "balanced"
)

// DefaultPlayStyle is used when no style is chosen
const DefaultPlayStyle = PlayStyleBalanced

// PlayStyles lists every valid style in display order
var PlayStyles = []PlayStyle{
	PlayStyleTight,
	PlayStyleLoose,
	PlayStyleAggressive,
	PlayStylePassive,
	PlayStyleBalanced,
}

// Valid reports whether s is one of the known styles
func (s PlayStyle) Valid() bool {
	for _, known := range PlayStyles {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the style.
// Unknown styles are shown as balanced, matching how they are stored by default.
func (s PlayStyle) Label() string {
	switch s {
	case PlayStyleTight:
		return "Tight"
	case PlayStyleLoose:
		return "Loose"
	case PlayStyleAggressive:
		return "Aggressive"
	case PlayStylePassive:
		return "Passive"
	default:
		return "Balanced"
	}
}

// ParsePlayStyle converts user input to a PlayStyle.
// An empty string yields the default style.
func ParsePlayStyle(s string) (PlayStyle, error) {
	if s == "" {
		return DefaultPlayStyle, nil
	}
	style := PlayStyle(s)
	if !style.Valid() {
		return "", ErrInvalidPlayStyle
	}
	return style, nil
}

// Player is a tracked opponent, keyed by the user supplied GameID
type Player struct {
	ID        PlayerID
	GameID    string // unique, immutable after creation
	Nickname  string
	PlayStyle PlayStyle

	// Notes and Tells are append-only entry logs (see package entrylog)
	Notes string
	Tells string

	CreatedBy UserID // set once at creation
	UpdatedBy UserID // last editor
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version increases by one on every successful update
	Version int64
}

// Clone returns a copy of the player safe to mutate
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
