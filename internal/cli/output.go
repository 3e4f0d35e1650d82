package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case AuthResult:
		o.printAuthResult(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case PlayerDetail:
		o.printPlayerDetail(v)
	case Stats:
		o.printStats(v)
	case Profile:
		o.printProfile(v)
	case ProfileList:
		o.printProfileList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// AuthResult combines the signed-in identity and token
type AuthResult struct {
	User         Identity  `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Player response type
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

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
	Count   int      `json:"count"`
}

// Entry response type
type Entry struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp,omitempty"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body"`
}

// PlayerDetail response type
type PlayerDetail struct {
	Player          Player  `json:"player"`
	NoteEntries     []Entry `json:"note_entries"`
	TellEntries     []Entry `json:"tell_entries"`
	CreatorNickname string  `json:"creator_nickname"`
	UpdaterNickname string  `json:"updater_nickname"`
}

// Stats response type
type Stats struct {
	Total                int    `json:"total"`
	MostCommonStyle      string `json:"most_common_style,omitempty"`
	MostCommonStyleLabel string `json:"most_common_style_label,omitempty"`
}

// Profile response type
type Profile struct {
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileList response type
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (o *Output) printIdentity(i Identity) {
	fmt.Printf("User: %s (%s)\n", i.Nickname, i.UserID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printIdentity(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Local().Format(time.DateTime))
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", displayName(p), p.ID)
	fmt.Printf("Game ID: %s\n", p.GameID)
	fmt.Printf("Style: %s\n", p.PlayStyleLabel)
	fmt.Printf("Version: %d\n", p.Version)
}

func (o *Output) printPlayerList(l PlayerList) {
	if l.Count == 0 {
		fmt.Println("No players found")
		return
	}
	fmt.Printf("Players (%d):\n", l.Count)
	for _, p := range l.Players {
		fmt.Printf("  - %s [%s] %s (%s)\n", displayName(p), p.GameID, p.PlayStyleLabel, p.ID)
	}
}

func (o *Output) printPlayerDetail(d PlayerDetail) {
	o.printPlayer(d.Player)
	fmt.Printf("Added by: %s\n", d.CreatorNickname)
	fmt.Printf("Last edited by: %s at %s\n", d.UpdaterNickname, d.Player.UpdatedAt.Local().Format(time.DateTime))

	printEntries("Notes", d.NoteEntries)
	printEntries("Tells", d.TellEntries)
}

func printEntries(title string, entries []Entry) {
	fmt.Printf("\n%s:\n", title)
	if len(entries) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, e := range entries {
		if e.Author != "" {
			fmt.Printf("  %s, %s:\n", e.Author, e.Timestamp)
		}
		for _, line := range strings.Split(e.Body, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Players: %d\n", s.Total)
	if s.MostCommonStyle != "" {
		fmt.Printf("Most common style: %s\n", s.MostCommonStyleLabel)
	}
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("Profile: %s (%s)\n", p.Nickname, p.UserID)
}

func (o *Output) printProfileList(l ProfileList) {
	fmt.Printf("Profiles (%d):\n", len(l.Profiles))
	for _, p := range l.Profiles {
		fmt.Printf("  - %s (%s)\n", p.Nickname, p.UserID)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	if h.Error != "" {
		fmt.Printf("Error: %s\n", h.Error)
	}
}

func displayName(p Player) string {
	if p.Nickname == "" {
		return p.GameID
	}
	return p.Nickname
}
