package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a credential record for the editorial backoffice.
type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
