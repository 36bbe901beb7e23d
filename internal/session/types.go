package session

import "time"

// Session is the stored state for one transport session.
type Session struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	ClientName     string    `json:"client_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Config for the session usecase.
type Config struct {
	IdleTTL        time.Duration
	AllowedOrigins []string
	AllowLocalhost bool
}
