package models

import (
	"time"

	"github.com/google/uuid"
)

// Repository is a tracked source-code repository
type Repository struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRepository creates a new Repository with a generated UUID
func NewRepository(owner, name string) *Repository {
	return &Repository{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// FullName returns the owner-qualified repository name
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
