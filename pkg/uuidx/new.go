package uuidx

import "github.com/google/uuid"

// New returns a time ordered (version 7) UUID. When the v7 generator fails it
// falls back to a random (version 4) UUID instead of panicking.
func New() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Short returns the random tail of id, enough to tell workers apart in logs.
func Short(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-12:]
}
