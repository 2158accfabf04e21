// store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shipment-tracking-service/internal/model"
)

var (
	// ErrDuplicate is returned by Insert when order_number is already taken.
	ErrDuplicate = errors.New("duplicate order number")
	// ErrUnsupportedField is returned by FindOneByField for fields without a lookup.
	ErrUnsupportedField = errors.New("unsupported lookup field")
)

// Field names a column FindOneByField can match on.
type Field string

const (
	FieldID          Field = "id"
	FieldOrderNumber Field = "order_number"
)

// Update carries the only columns that may change after creation.
type Update struct {
	Status          model.Status
	CurrentLocation string
	UpdatedAt       time.Time
}

// Store is the persistent shipment table. Every method touches at most one
// row and is applied atomically by the implementation.
type Store interface {
	// Insert stores row and returns the id assigned to it. row.ID is ignored.
	Insert(ctx context.Context, row model.Shipment) (int64, error)
	// UpdateByID returns the number of rows matched, 0 or 1.
	UpdateByID(ctx context.Context, id int64, u Update) (int64, error)
	// DeleteByID returns the number of rows removed, 0 or 1.
	DeleteByID(ctx context.Context, id int64) (int64, error)
	// FindOneByField returns nil, nil when nothing matches.
	FindOneByField(ctx context.Context, field Field, value string) (*model.Shipment, error)
	ListAllOrderedByIDDesc(ctx context.Context) ([]model.Shipment, error)
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", value, err)
	}
	return id, nil
}
