package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/role"
)

// BookService manages the catalog. Reads are public; writes need the
// elevated role.
type BookService struct {
	repo     BookRepository
	onDelete []DeleteHook
}

// DeleteHook runs after a book is removed from the catalog.
type DeleteHook func(ctx context.Context, bookID uuid.UUID) error

func NewBookService(repo BookRepository) *BookService {
	return &BookService{repo: repo}
}

// OnDelete registers hook to run after every successful DeleteBook.
func (s *BookService) OnDelete(hook DeleteHook) {
	s.onDelete = append(s.onDelete, hook)
}

func notFound(id uuid.UUID, err error) error {
	return liberrors.Wrap(err, liberrors.ErrCodeNotFound, fmt.Sprintf("book not found: %s", id))
}

// FindBook returns a single book
func (s *BookService) FindBook(ctx context.Context, id uuid.UUID) (Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return Book{}, notFound(id, err)
	}
	if err != nil {
		return Book{}, fmt.Errorf("failed to find book: %w", err)
	}
	return b, nil
}

// Exists reports whether a book with id is in the catalog.
func (s *BookService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return true, nil
}

// ListBooks returns one page of the catalog
func (s *BookService) ListBooks(ctx context.Context, offset, limit int) (pagination.Page[Book], error) {
	req, err := pagination.ToPageRequest(offset, limit)
	if err != nil {
		return pagination.Page[Book]{}, err
	}
	books, total, err := s.repo.FindAll(ctx, req)
	if err != nil {
		return pagination.Page[Book]{}, fmt.Errorf("failed to list books: %w", err)
	}
	return pagination.ToPageResponse(books, total, offset, limit), nil
}

func (s *BookService) CreateBook(ctx context.Context, p *principal.Principal, b Book) (Book, error) {
	if err := p.Authorize(role.CreateBook); err != nil {
		return Book{}, err
	}
	if err := b.Validate(); err != nil {
		return Book{}, err
	}
	b.ID = uuid.Nil
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	slog.Info("Book created", "book_id", created.ID, "by", p)
	return created, nil
}

func (s *BookService) UpdateBook(ctx context.Context, p *principal.Principal, id uuid.UUID, b Book) (Book, error) {
	if err := p.Authorize(role.UpdateBook); err != nil {
		return Book{}, err
	}
	if err := b.Validate(); err != nil {
		return Book{}, err
	}
	b.ID = id
	updated, err := s.repo.Update(ctx, b)
	if errors.Is(err, ErrBookNotFound) {
		return Book{}, notFound(id, err)
	}
	if err != nil {
		return Book{}, fmt.Errorf("failed to update book: %w", err)
	}
	slog.Info("Book updated", "book_id", id, "by", p)
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, p *principal.Principal, id uuid.UUID) error {
	if err := p.Authorize(role.DeleteBook); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return notFound(id, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	for _, hook := range s.onDelete {
		if err := hook(ctx, id); err != nil {
			return fmt.Errorf("failed to clean up deleted book: %w", err)
		}
	}
	slog.Info("Book deleted", "book_id", id, "by", p)
	return nil
}
