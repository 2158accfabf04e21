// dto.go
package dto

import "time"

// CreateShipmentRequest is the raw admin form. Fields are validated by the
// repository, not by binding tags, so every caller gets the same checks.
type CreateShipmentRequest struct {
	OrderNumber string `json:"order_number"`
	DriverName  string `json:"driver_name"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type UpdateShipmentRequest struct {
	Status          string `json:"status"`
	CurrentLocation string `json:"current_location"`
}

type LoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TrackingResponse is what the public tracking page shows.
type TrackingResponse struct {
	OrderNumber     string    `json:"order_number"`
	DriverName      string    `json:"driver_name"`
	Status          string    `json:"status"`
	StatusLabel     string    `json:"status_label"`
	Progress        int       `json:"progress"`
	CurrentLocation string    `json:"current_location"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}
