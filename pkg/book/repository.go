package book

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/pagination"
)

var ErrBookNotFound = errors.New("book not found")

// BookRepository persists catalog entries.
type BookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Book, error)
	FindAll(ctx context.Context, page pagination.PageRequest) ([]Book, int64, error)
	Create(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
