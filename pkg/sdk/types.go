package sdk

// UserProfile identifies the authenticated principal.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// CredentialPair holds the bearer tokens for an authenticated session.
// The tokens are opaque; the client stores and sends them without
// inspecting their contents.
type CredentialPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the result of a successful credential exchange.
type Session struct {
	User         UserProfile `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
}

// Exercise describes a single exercise, including the demo media reference
// shown on the detail screen.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Series      int    `json:"series"`
	Repetitions int    `json:"repetitions"`
	Demo        string `json:"demo,omitempty"`
	Thumb       string `json:"thumb,omitempty"`
}

// HistoryEntry is one logged exercise.
type HistoryEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Group     string `json:"group"`
	Hour      string `json:"hour"`
	CreatedAt string `json:"created_at"`
}

// HistoryDay groups history entries by day, as returned by the server.
type HistoryDay struct {
	Title   string         `json:"title"`
	Entries []HistoryEntry `json:"data"`
}

// CreateUserInput is the payload for account registration.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput is the payload for updating the authenticated user.
// Password fields are optional; when Password is set, OldPassword must
// carry the current password.
type UpdateUserInput struct {
	Name        string `json:"name"`
	Password    string `json:"password,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
}
