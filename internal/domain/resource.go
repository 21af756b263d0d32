package domain

import "errors"

var (
	ErrNotFound       = errors.New("key not found locally")
	ErrNotResponsible = errors.New("node not responsible for the given key")
	ErrAlreadyExists  = errors.New("key already exists")
)

// Page is a scraped site, stored as an opaque zip blob keyed by the hash
// of the URL it was fetched from. The blob's internal layout is the
// concern of the scraper collaborator, not the ring.
type Page struct {
	Key     ID
	URL     string
	Archive []byte
}

// User is a registered account. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	Key          ID
	Username     string
	PasswordHash string
}
