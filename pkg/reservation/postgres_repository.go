package reservation

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

// PostgresReservationRepository implements ReservationRepository using PostgreSQL
type PostgresReservationRepository struct {
	db DBTX
}

// NewPostgresReservationRepository creates a new PostgreSQL reservation repository
func NewPostgresReservationRepository(db DBTX) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

const reservationColumns = `id, book_id, owner_id, state, reserved_at`

func scanReservation(row pgx.Row) (Reservation, error) {
	var (
		res   Reservation
		state string
	)
	err := row.Scan(&res.ID, &res.BookID, &res.OwnerID, &state, &res.ReservedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrReservationNotFound
	}
	res.State = State(state)
	return res, err
}

func (r *PostgresReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrReservationNotFound) {
		return Reservation{}, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, err
}

func (r *PostgresReservationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page pagination.PageRequest) ([]Reservation, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	items, err := r.query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE owner_id = $1
		 ORDER BY reserved_at DESC, id LIMIT $2 OFFSET $3`,
		ownerID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresReservationRepository) FindAll(ctx context.Context, page pagination.PageRequest) ([]Reservation, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	items, err := r.query(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 ORDER BY reserved_at DESC, id LIMIT $1 OFFSET $2`,
		page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresReservationRepository) query(ctx context.Context, query string, args ...interface{}) ([]Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var items []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return items, nil
}

func (r *PostgresReservationRepository) Create(ctx context.Context, res Reservation) (Reservation, error) {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	query := `
		INSERT INTO reservations (id, book_id, owner_id, state, reserved_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reservationColumns
	created, err := scanReservation(r.db.QueryRow(ctx, query,
		res.ID, res.BookID, res.OwnerID, string(res.State), res.ReservedAt))
	if err != nil {
		return Reservation{}, fmt.Errorf("failed to create reservation: %w", err)
	}
	return created, nil
}

func (r *PostgresReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *PostgresReservationRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations for book: %w", err)
	}
	return tag.RowsAffected(), nil
}
