//go:build integration

package store

import (
	"context"
	"strconv"
	"testing"
	"time"

	"shipment-tracking-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate mongodb container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("failed to disconnect mongodb client: %v", err)
		}
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx, nil))

	s := NewMongoStore(client.Database("shipment_tracking_test"))
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStoreLifecycle(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Millisecond)
	row := testRow("WT-1001")
	row.UpdatedAt = created

	id, err := s.Insert(ctx, row)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.Insert(ctx, row)
	assert.ErrorIs(t, err, ErrDuplicate)

	second := testRow("WT-1002")
	second.UpdatedAt = created
	secondID, err := s.Insert(ctx, second)
	require.NoError(t, err)
	assert.Greater(t, secondID, id, "failed insert must not hand its id out again")

	later := created.Add(time.Second)
	n, err := s.UpdateByID(ctx, id, Update{Status: model.StatusInTransit, CurrentLocation: "Poznań", UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// a lagging clock still counts as matched and still advances updated_at
	n, err = s.UpdateByID(ctx, id, Update{Status: model.StatusInTransit, CurrentLocation: "Poznań", UpdatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.FindOneByField(ctx, FieldOrderNumber, "WT-1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusInTransit, got.Status)
	assert.Equal(t, "Poznań", got.CurrentLocation)
	assert.True(t, later.Add(time.Millisecond).Equal(got.UpdatedAt), "updated_at must advance past the stored value")

	byID, err := s.FindOneByField(ctx, FieldID, strconv.FormatInt(id, 10))
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "WT-1001", byID.OrderNumber)

	rows, err := s.ListAllOrderedByIDDesc(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WT-1002", rows[0].OrderNumber)
	assert.Equal(t, "WT-1001", rows[1].OrderNumber)

	n, err = s.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)

	gone, err := s.FindOneByField(ctx, FieldOrderNumber, "WT-1001")
	require.NoError(t, err)
	assert.Nil(t, gone)

	n, err = s.UpdateByID(ctx, 999, Update{Status: model.StatusDelivered, UpdatedAt: later})
	require.NoError(t, err)
	assert.Zero(t, n)
}
