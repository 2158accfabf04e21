package controller

import (
	"net/http"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/dto"
	"shipment-tracking-service/internal/logging"
	"shipment-tracking-service/internal/metrics"
	"shipment-tracking-service/internal/middleware"
	"shipment-tracking-service/internal/model"
	"shipment-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ShipmentController struct {
	Tracking *service.TrackingService
	Admin    *service.AdminService
	Listing  *service.ListingService
	Auth     service.Authenticator
	Metrics  *metrics.Metrics
	Logger   *logging.Logger
}

// GET /tracking/:orderNumber — public
func (ctl *ShipmentController) Track(c *gin.Context) {
	s, err := ctl.Tracking.FindByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
	ctl.Metrics.TrackingLookups.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrackingResponse(s))
}

// POST /admin/login — trades the shared secret for a session token
func (ctl *ShipmentController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.respondError(c, apperror.Validation(err.Error()))
		return
	}

	token, expiresAt, err := ctl.Auth.Login(c.Request.Context(), req.Secret)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// GET /admin/shipments
func (ctl *ShipmentController) ListShipments(c *gin.Context) {
	rows, err := ctl.Listing.ListShipments(c.Request.Context())
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// POST /admin/shipments
func (ctl *ShipmentController) CreateShipment(c *gin.Context) {
	var req dto.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.rejectBody(c, "create", err)
		return
	}

	s, err := ctl.Admin.CreateShipment(c.Request.Context(), req)
	ctl.Metrics.ShipmentMutations.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	ctl.logger(c).Info("shipment created", "id", s.ID, "order_number", s.OrderNumber)
	c.JSON(http.StatusCreated, s)
}

// PATCH /admin/shipments/:id
func (ctl *ShipmentController) UpdateShipment(c *gin.Context) {
	var req dto.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.rejectBody(c, "update", err)
		return
	}

	s, err := ctl.Admin.UpdateShipment(c.Request.Context(), c.Param("id"), req)
	ctl.Metrics.ShipmentMutations.WithLabelValues("update", metrics.Outcome(err)).Inc()
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	ctl.logger(c).Info("shipment updated", "id", s.ID, "status", s.Status, "current_location", s.CurrentLocation)
	c.JSON(http.StatusOK, s)
}

// rejectBody answers a request whose JSON body could not be bound.
func (ctl *ShipmentController) rejectBody(c *gin.Context, op string, bindErr error) {
	err := apperror.Validation(bindErr.Error())
	ctl.Metrics.ShipmentMutations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	ctl.respondError(c, err)
}

// DELETE /admin/shipments/:id
func (ctl *ShipmentController) DeleteShipment(c *gin.Context) {
	id := c.Param("id")
	err := ctl.Admin.DeleteShipment(c.Request.Context(), id)
	ctl.Metrics.ShipmentMutations.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	ctl.logger(c).Info("shipment deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func (ctl *ShipmentController) logger(c *gin.Context) *logging.Logger {
	return ctl.Logger.WithRequestID(c.GetString(middleware.ContextKeyRequestID))
}

func (ctl *ShipmentController) respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctl.logger(c).Error("request failed", "code", appErr.Code, "error", err)
	}
	c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: c.GetString(middleware.ContextKeyRequestID),
	})
}

func toTrackingResponse(s *model.Shipment) dto.TrackingResponse {
	return dto.TrackingResponse{
		OrderNumber:     s.OrderNumber,
		DriverName:      s.DriverName,
		Status:          s.Status.String(),
		StatusLabel:     s.Status.Label(),
		Progress:        s.Status.Progress(),
		CurrentLocation: s.CurrentLocation,
		Origin:          s.Origin,
		Destination:     s.Destination,
		UpdatedAt:       s.UpdatedAt,
	}
}
