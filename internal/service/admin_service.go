package service

import (
	"context"
	"strconv"
	"strings"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/dto"
	"shipment-tracking-service/internal/model"
	"shipment-tracking-service/internal/repository"
	"shipment-tracking-service/internal/validation"
)

// AdminService shapes raw operator input for the repository. Repository
// errors are returned unchanged.
type AdminService struct {
	repo ShipmentRepository
}

func NewAdminService(r ShipmentRepository) *AdminService {
	return &AdminService{repo: r}
}

func (s *AdminService) CreateShipment(ctx context.Context, req dto.CreateShipmentRequest) (*model.Shipment, error) {
	return s.repo.Create(ctx, repository.CreateInput{
		OrderNumber: repository.NormalizeOrderNumber(req.OrderNumber),
		DriverName:  req.DriverName,
		Origin:      req.Origin,
		Destination: req.Destination,
	})
}

// UpdateShipment sets status and location of the shipment selected by rawID.
// Panel labels such as "W TRASIE" are accepted for the status.
func (s *AdminService) UpdateShipment(ctx context.Context, rawID string, req dto.UpdateShipmentRequest) (*model.Shipment, error) {
	id, err := parseShipmentID(rawID)
	if err != nil {
		return nil, err
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		// the repository owns the rejection
		status = model.Status(req.Status)
	}
	return s.repo.UpdateStatusAndLocation(ctx, id, status, req.CurrentLocation)
}

func (s *AdminService) DeleteShipment(ctx context.Context, rawID string) error {
	id, err := parseShipmentID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type shipmentIDParam struct {
	ID string `json:"id" validate:"required,number"`
}

type shipmentRef struct {
	ID int64 `json:"id" validate:"gt=0"`
}

func parseShipmentID(raw string) (int64, error) {
	param := shipmentIDParam{ID: strings.TrimSpace(raw)}
	if param.ID == "" {
		return 0, validation.Struct("no shipment selected", param)
	}
	if err := validation.Struct("invalid shipment id", param); err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(param.ID, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFields("invalid shipment id", map[string]string{"id": "out of range"})
	}
	if err := validation.Struct("invalid shipment id", shipmentRef{ID: id}); err != nil {
		return 0, err
	}
	return id, nil
}
