package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/clock"
	"shipment-tracking-service/internal/model"
	"shipment-tracking-service/internal/store"
	"shipment-tracking-service/internal/validation"
)

const resource = "shipment"

// CreateInput is the caller-supplied part of a new shipment.
type CreateInput struct {
	OrderNumber string `json:"order_number" validate:"required"`
	DriverName  string `json:"driver_name" validate:"required"`
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
}

type statusUpdate struct {
	Status model.Status `json:"status" validate:"shipment_status"`
}

type trackingQuery struct {
	OrderNumber string `json:"order_number" validate:"required"`
}

// ShipmentRepository validates and normalizes every write before it reaches
// the store. It is the only component that talks to the store.
type ShipmentRepository struct {
	store store.Store
	clock clock.Clock
}

func NewShipmentRepository(s store.Store, c clock.Clock) *ShipmentRepository {
	return &ShipmentRepository{store: s, clock: c}
}

// NormalizeOrderNumber is the one canonical form used for storage and lookup.
func NormalizeOrderNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (r *ShipmentRepository) Create(ctx context.Context, in CreateInput) (*model.Shipment, error) {
	in = CreateInput{
		OrderNumber: NormalizeOrderNumber(in.OrderNumber),
		DriverName:  strings.TrimSpace(in.DriverName),
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
	}
	if err := validation.Struct("missing required shipment fields", in); err != nil {
		return nil, err
	}

	row := model.Shipment{
		OrderNumber: in.OrderNumber,
		DriverName:  in.DriverName,
		Origin:      in.Origin,
		Destination: in.Destination,
	}
	row.Status = model.StatusLoading
	row.CurrentLocation = row.Origin
	row.UpdatedAt = r.clock.Now()

	id, err := r.store.Insert(ctx, row)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperror.Conflict(fmt.Sprintf("order number %s already exists", row.OrderNumber)).
			WithDetail("order_number", row.OrderNumber)
	}
	if err != nil {
		return nil, apperror.Store("insert", err)
	}
	row.ID = id
	return &row, nil
}

// UpdateStatusAndLocation overwrites status and current location. Concurrent
// updates of the same id are last-write-wins.
func (r *ShipmentRepository) UpdateStatusAndLocation(ctx context.Context, id int64, status model.Status, location string) (*model.Shipment, error) {
	if err := validation.Struct("invalid shipment status", statusUpdate{Status: status}); err != nil {
		return nil, err
	}

	key := strconv.FormatInt(id, 10)
	n, err := r.store.UpdateByID(ctx, id, store.Update{
		Status:          status,
		CurrentLocation: strings.TrimSpace(location),
		UpdatedAt:       r.clock.Now(),
	})
	if err != nil {
		return nil, apperror.Store("update", err)
	}
	if n == 0 {
		return nil, apperror.NotFound(resource, key)
	}

	updated, err := r.store.FindOneByField(ctx, store.FieldID, key)
	if err != nil {
		return nil, apperror.Store("find", err)
	}
	if updated == nil {
		// deleted between the update and the read
		return nil, apperror.NotFound(resource, key)
	}
	return updated, nil
}

func (r *ShipmentRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.store.DeleteByID(ctx, id)
	if err != nil {
		return apperror.Store("delete", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, strconv.FormatInt(id, 10))
	}
	return nil
}

// List returns every shipment, most recently created first.
func (r *ShipmentRepository) List(ctx context.Context) ([]model.Shipment, error) {
	rows, err := r.store.ListAllOrderedByIDDesc(ctx)
	if err != nil {
		return nil, apperror.Store("list", err)
	}
	return rows, nil
}

func (r *ShipmentRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Shipment, error) {
	key := NormalizeOrderNumber(orderNumber)
	if err := validation.Struct("order number is required", trackingQuery{OrderNumber: key}); err != nil {
		return nil, err
	}

	row, err := r.store.FindOneByField(ctx, store.FieldOrderNumber, key)
	if err != nil {
		return nil, apperror.Store("find", err)
	}
	if row == nil {
		return nil, apperror.NotFound(resource, key)
	}
	return row, nil
}
