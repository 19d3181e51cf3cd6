package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreign key violation
const pgErrForeignKey = "23503"

// PGStore implements Store on top of Postgres via pgx.
type PGStore struct {
	Pool *pgxpool.Pool
}

// GetOrder implements Store.
func (s *PGStore) GetOrder(ctx context.Context, id int64) (Order, error) {
	const q = `
		SELECT id, status, total_cents, billing_name, billing_email, billing_phone
		FROM orders WHERE id = $1`
	var o Order
	var status string
	err := s.Pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &status, &o.TotalCents,
		&o.BillingName, &o.BillingEmail, &o.BillingPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	o.Status = Status(status)
	return o, nil
}

// UpdateStatus implements Store. The status change and the note append run
// in one transaction so the note log never references a transition that was
// rolled back.
func (s *PGStore) UpdateStatus(ctx context.Context, id int64, status Status, note string) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if note != "" {
		if _, err := tx.Exec(ctx, `INSERT INTO order_notes (order_id, note) VALUES ($1, $2)`, id, note); err != nil {
			return fmt.Errorf("append note for order %d: %w", id, err)
		}
	}
	return tx.Commit(ctx)
}

// AddNote implements Store.
func (s *PGStore) AddNote(ctx context.Context, id int64, note string) error {
	_, err := s.Pool.Exec(ctx, `INSERT INTO order_notes (order_id, note) VALUES ($1, $2)`, id, note)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKey {
			return ErrNotFound
		}
		return fmt.Errorf("append note for order %d: %w", id, err)
	}
	return nil
}

// SetMeta implements Store.
func (s *PGStore) SetMeta(ctx context.Context, id int64, key, value string) error {
	const q = `
		INSERT INTO order_meta (order_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, key) DO UPDATE SET value = EXCLUDED.value`
	_, err := s.Pool.Exec(ctx, q, id, key, value)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKey {
			return ErrNotFound
		}
		return fmt.Errorf("set meta %q for order %d: %w", key, id, err)
	}
	return nil
}
