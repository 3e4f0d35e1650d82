package request

// SignUpRequest is the request body for creating an account
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// SignInRequest is the request body for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreatePlayerRequest is the request body for adding a player
type CreatePlayerRequest struct {
	GameID    string `json:"game_id"`
	Nickname  string `json:"nickname"`
	PlayStyle string `json:"play_style"`
	Notes     string `json:"notes"`
	Tells     string `json:"tells"`
}

// EditPlayerRequest is the request body for editing a player.
// Nickname and play style replace the stored values; new notes and tells are appended.
type EditPlayerRequest struct {
	Nickname        string `json:"nickname"`
	PlayStyle       string `json:"play_style"`
	NewNotes        string `json:"new_notes"`
	NewTells        string `json:"new_tells"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// RenameProfileRequest is the request body for changing the caller's nickname
type RenameProfileRequest struct {
	Nickname string `json:"nickname"`
}
