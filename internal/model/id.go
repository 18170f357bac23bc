package model

import gonanoid "github.com/matoous/go-nanoid/v2"

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const idLength = 16

// NewID returns a random identifier used as the primary key of every record
func NewID() (string, error) {
	return gonanoid.Generate(idCharset, idLength)
}

// ValidID reports whether s looks like an ID produced by NewID. Used to
// reject garbage path params before they hit the database.
func ValidID(s string) bool {
	if len(s) != idLength {
		return false
	}

	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}

	return true
}
