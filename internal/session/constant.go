package session

const (
	// IDBytes is the entropy of a session id before hex encoding.
	IDBytes = 32

	KeyPrefix = "session:"
)
