package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/dto"
	"shipment-tracking-service/internal/logging"
	"shipment-tracking-service/internal/metrics"
	"shipment-tracking-service/internal/model"
)

// ShipmentCreator is implemented by service.AdminService.
type ShipmentCreator interface {
	CreateShipment(ctx context.Context, req dto.CreateShipmentRequest) (*model.Shipment, error)
}

type ShipmentRequestedConsumer struct {
	creator ShipmentCreator
	logger  *logging.Logger
	metrics *metrics.Metrics
}

func NewShipmentRequestedConsumer(c ShipmentCreator, l *logging.Logger, m *metrics.Metrics) *ShipmentRequestedConsumer {
	return &ShipmentRequestedConsumer{creator: c, logger: l.WithComponent("rabbit"), metrics: m}
}

// ShipmentRequestedMessage is the envelope published on the
// shipment_requested exchange.
type ShipmentRequestedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderNumber string `json:"order_number"`
		DriverName  string `json:"driver_name"`
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
	} `json:"message"`
}

func (c *ShipmentRequestedConsumer) Handle(ctx context.Context, body []byte) error {
	var event ShipmentRequestedMessage
	if err := json.Unmarshal(body, &event); err != nil {
		c.metrics.IntakeMessages.WithLabelValues("malformed").Inc()
		c.logger.Warn("discarding malformed shipment request", "error", err)
		return apperror.Validation(fmt.Sprintf("malformed message: %v", err))
	}

	log := c.logger.With("correlation_id", event.CorrelationID, "order_number", event.Message.OrderNumber)

	s, err := c.creator.CreateShipment(ctx, dto.CreateShipmentRequest{
		OrderNumber: event.Message.OrderNumber,
		DriverName:  event.Message.DriverName,
		Origin:      event.Message.Origin,
		Destination: event.Message.Destination,
	})
	c.metrics.IntakeMessages.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Error("shipment request rejected", "error", err)
		return err
	}

	log.Info("shipment created from request", "id", s.ID)
	return nil
}

// shouldRequeue reports whether redelivery could succeed. Only store
// failures qualify; bad or duplicate requests fail the same way every time.
func shouldRequeue(err error) bool {
	return err != nil && apperror.IsStore(err)
}
