package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/simple-library/pkg/pagination"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresBookRepository implements BookRepository using PostgreSQL
type PostgresBookRepository struct {
	db DBTX
}

// NewPostgresBookRepository creates a new PostgreSQL book repository
func NewPostgresBookRepository(db DBTX) *PostgresBookRepository {
	return &PostgresBookRepository{db: db}
}

const bookColumns = `id, title, author, synopsis, created_at, last_modified_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Synopsis, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	return b, err
}

func (r *PostgresBookRepository) FindByID(ctx context.Context, id uuid.UUID) (Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return b, err
}

func (r *PostgresBookRepository) FindAll(ctx context.Context, page pagination.PageRequest) ([]Book, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title, id LIMIT $1 OFFSET $2`,
		page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, total, nil
}

func (r *PostgresBookRepository) Create(ctx context.Context, b Book) (Book, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `
		INSERT INTO books (id, title, author, synopsis)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + bookColumns
	created, err := scanBook(r.db.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.Synopsis))
	if err != nil {
		return Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	return created, nil
}

func (r *PostgresBookRepository) Update(ctx context.Context, b Book) (Book, error) {
	query := `
		UPDATE books
		SET title = $2, author = $3, synopsis = $4, last_modified_at = now() AT TIME ZONE 'utc'
		WHERE id = $1
		RETURNING ` + bookColumns
	updated, err := scanBook(r.db.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.Synopsis))
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return Book{}, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, err
}

func (r *PostgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}
