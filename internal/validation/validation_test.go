package validation

import (
	"testing"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shipmentForm struct {
	OrderNumber string       `json:"order_number" validate:"required"`
	Status      model.Status `json:"status" validate:"shipment_status"`
	Count       int          `json:"count" validate:"gt=0"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct("bad form", shipmentForm{Status: "LOST"})
	require.True(t, apperror.IsValidation(err))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "bad form", appErr.Message)
	assert.Equal(t, "required", appErr.Details["order_number"])
	assert.Equal(t, "must be greater than 0", appErr.Details["count"])
	assert.Contains(t, appErr.Details["status"], `"LOST" is not one of LOADING, IN_TRANSIT, DELAYED, DELIVERED`)
}

func TestStructAcceptsValidInput(t *testing.T) {
	for _, s := range model.Statuses {
		assert.NoError(t, Struct("bad form", shipmentForm{OrderNumber: "WT-1", Status: s, Count: 1}), s)
	}
}

func TestStructRejectsNonStruct(t *testing.T) {
	err := Struct("bad form", "not a struct")
	assert.True(t, apperror.IsValidation(err))
}
