package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-tracking-service/internal/model"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS shipments (
    id               BIGSERIAL PRIMARY KEY,
    order_number     TEXT        NOT NULL UNIQUE,
    driver_name      TEXT        NOT NULL,
    status           TEXT        NOT NULL CHECK (status IN ('LOADING', 'IN_TRANSIT', 'DELAYED', 'DELIVERED')),
    current_location TEXT        NOT NULL DEFAULT '',
    origin           TEXT        NOT NULL,
    destination      TEXT        NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
)`

const selectColumns = `id, order_number, driver_name, status, current_location, origin, destination, updated_at`

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings the database behind dsn.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates the shipments table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Insert(ctx context.Context, row model.Shipment) (int64, error) {
	query := `
        INSERT INTO shipments (order_number, driver_name, status, current_location, origin, destination, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		row.OrderNumber,
		row.DriverName,
		string(row.Status),
		row.CurrentLocation,
		row.Origin,
		row.Destination,
		row.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to insert shipment: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateByID(ctx context.Context, id int64, u Update) (int64, error) {
	query := `
        UPDATE shipments
        SET status = $1, current_location = $2, updated_at = GREATEST(updated_at + interval '1 millisecond', $3)
        WHERE id = $4`

	res, err := s.db.ExecContext(ctx, query, string(u.Status), u.CurrentLocation, u.UpdatedAt, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update shipment %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shipment %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) FindOneByField(ctx context.Context, field Field, value string) (*model.Shipment, error) {
	var (
		query = `SELECT ` + selectColumns + ` FROM shipments WHERE `
		arg   any
	)
	switch field {
	case FieldOrderNumber:
		query += `order_number = $1`
		arg = value
	case FieldID:
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		query += `id = $1`
		arg = id
	default:
		return nil, ErrUnsupportedField
	}

	row, err := scanShipment(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *PostgresStore) ListAllOrderedByIDDesc(ctx context.Context) ([]model.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM shipments ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Shipment{}
	for rows.Next() {
		row, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShipment(sc scanner) (*model.Shipment, error) {
	var (
		v      model.Shipment
		status string
	)
	if err := sc.Scan(
		&v.ID,
		&v.OrderNumber,
		&v.DriverName,
		&status,
		&v.CurrentLocation,
		&v.Origin,
		&v.Destination,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.Status = model.Status(status)
	v.UpdatedAt = v.UpdatedAt.UTC()
	return &v, nil
}
