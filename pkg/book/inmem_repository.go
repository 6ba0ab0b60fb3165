package book

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/pagination"
)

// InMemoryBookRepository implements BookRepository using in-memory storage
type InMemoryBookRepository struct {
	mutex sync.RWMutex
	books map[uuid.UUID]Book
}

// NewInMemoryBookRepository creates a new in-memory book repository
func NewInMemoryBookRepository() *InMemoryBookRepository {
	return &InMemoryBookRepository{
		books: make(map[uuid.UUID]Book),
	}
}

func (r *InMemoryBookRepository) FindByID(_ context.Context, id uuid.UUID) (Book, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return b, nil
}

// FindAll returns one page of books ordered by title
func (r *InMemoryBookRepository) FindAll(_ context.Context, page pagination.PageRequest) ([]Book, int64, error) {
	r.mutex.RLock()
	all := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, b)
	}
	r.mutex.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Title == all[j].Title {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].Title < all[j].Title
	})
	return pagination.Slice(all, page), int64(len(all)), nil
}

func (r *InMemoryBookRepository) Create(_ context.Context, b Book) (Book, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.books[b.ID] = b
	return b, nil
}

func (r *InMemoryBookRepository) Update(_ context.Context, b Book) (Book, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.books[b.ID]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	r.books[b.ID] = b
	return b, nil
}

func (r *InMemoryBookRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}
