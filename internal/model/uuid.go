package model

import "github.com/google/uuid"

// GenerateUUID creates a new UUID string for store node IDs.
func GenerateUUID() string {
	return uuid.New().String()
}
