package service

import (
	"context"

	"shipment-tracking-service/internal/model"
	"shipment-tracking-service/internal/repository"
)

// ShipmentRepository is implemented by repository.ShipmentRepository.
type ShipmentRepository interface {
	Create(ctx context.Context, in repository.CreateInput) (*model.Shipment, error)
	UpdateStatusAndLocation(ctx context.Context, id int64, status model.Status, location string) (*model.Shipment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Shipment, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Shipment, error)
}

// TrackingService is the public read path.
type TrackingService struct {
	repo ShipmentRepository
}

func NewTrackingService(r ShipmentRepository) *TrackingService {
	return &TrackingService{repo: r}
}

// FindByOrderNumber returns the single shipment with this order number, in
// any casing, or a not-found error.
func (s *TrackingService) FindByOrderNumber(ctx context.Context, query string) (*model.Shipment, error) {
	return s.repo.FindByOrderNumber(ctx, repository.NormalizeOrderNumber(query))
}

// ListingService gives the operator panel every shipment, newest first.
type ListingService struct {
	repo ShipmentRepository
}

func NewListingService(r ShipmentRepository) *ListingService {
	return &ListingService{repo: r}
}

func (s *ListingService) ListShipments(ctx context.Context) ([]model.Shipment, error) {
	return s.repo.List(ctx)
}
