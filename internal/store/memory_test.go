package store

import (
	"context"
	"strconv"
	"testing"
	"time"

	"shipment-tracking-service/internal/clock"
	"shipment-tracking-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRow(orderNumber string) model.Shipment {
	return model.Shipment{
		OrderNumber:     orderNumber,
		DriverName:      "Jan Kowalski",
		Status:          model.StatusLoading,
		CurrentLocation: "Warszawa",
		Origin:          "Warszawa",
		Destination:     "Gdańsk",
		UpdatedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreInsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.Insert(ctx, testRow("WT-1001"))
	require.NoError(t, err)
	second, err := s.Insert(ctx, testRow("WT-1002"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestMemoryStoreInsertRejectsDuplicateOrderNumber(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Insert(ctx, testRow("WT-1001"))
	require.NoError(t, err)

	_, err = s.Insert(ctx, testRow("WT-1001"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreIDsAreNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, testRow("WT-1001"))
	require.NoError(t, err)
	n, err := s.DeleteByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	next, err := s.Insert(ctx, testRow("WT-1001"))
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestMemoryStoreUpdateByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	row := testRow("WT-1001")
	id, err := s.Insert(ctx, row)
	require.NoError(t, err)

	later := row.UpdatedAt.Add(time.Minute)
	n, err := s.UpdateByID(ctx, id, Update{Status: model.StatusInTransit, CurrentLocation: "Poznań", UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.FindOneByField(ctx, FieldID, strconv.FormatInt(id, 10))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusInTransit, got.Status)
	assert.Equal(t, "Poznań", got.CurrentLocation)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, "Warszawa", got.Origin)
}

func TestMemoryStoreUpdateAlwaysAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	row := testRow("WT-1001")
	id, err := s.Insert(ctx, row)
	require.NoError(t, err)

	_, err = s.UpdateByID(ctx, id, Update{Status: model.StatusDelayed, UpdatedAt: row.UpdatedAt.Add(-time.Hour)})
	require.NoError(t, err)

	got, err := s.FindOneByField(ctx, FieldOrderNumber, "WT-1001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelayed, got.Status)
	assert.Equal(t, row.UpdatedAt.Add(clock.Precision), got.UpdatedAt)

	ahead := got.UpdatedAt.Add(time.Minute)
	_, err = s.UpdateByID(ctx, id, Update{Status: model.StatusDelivered, UpdatedAt: ahead})
	require.NoError(t, err)
	got, err = s.FindOneByField(ctx, FieldOrderNumber, "WT-1001")
	require.NoError(t, err)
	assert.Equal(t, ahead, got.UpdatedAt)
}

func TestMemoryStoreMissingRows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := s.UpdateByID(ctx, 42, Update{Status: model.StatusDelivered})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteByID(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.FindOneByField(ctx, FieldOrderNumber, "WT-404")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindOneByField(ctx, FieldID, "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreFindOneByFieldErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.FindOneByField(ctx, Field("driver_name"), "Jan Kowalski")
	assert.ErrorIs(t, err, ErrUnsupportedField)

	_, err = s.FindOneByField(ctx, FieldID, "abc")
	assert.Error(t, err)
}

func TestMemoryStoreListOrderedByIDDesc(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, n := range []string{"WT-1001", "WT-1002", "WT-1003"} {
		_, err := s.Insert(ctx, testRow(n))
		require.NoError(t, err)
	}

	rows, err := s.ListAllOrderedByIDDesc(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "WT-1003", rows[0].OrderNumber)
	assert.Equal(t, "WT-1002", rows[1].OrderNumber)
	assert.Equal(t, "WT-1001", rows[2].OrderNumber)
}

func TestMemoryStoreListEmptyIsNotNil(t *testing.T) {
	rows, err := NewMemoryStore().ListAllOrderedByIDDesc(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()

	_, err := s.Insert(ctx, testRow("WT-1001"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.ListAllOrderedByIDDesc(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
