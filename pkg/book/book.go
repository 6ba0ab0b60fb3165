package book

import (
	"strings"
	"time"

	"github.com/google/uuid"
	liberrors "github.com/tendant/simple-library/pkg/errors"
)

// Book is a catalog entry reservations are placed against.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Synopsis  string    `json:"synopsis"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields a catalog entry cannot go without.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return liberrors.InvalidInput("title", "must not be empty")
	}
	if strings.TrimSpace(b.Author) == "" {
		return liberrors.InvalidInput("author", "must not be empty")
	}
	return nil
}
