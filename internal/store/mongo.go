package store

import (
	"context"
	"errors"
	"fmt"

	"shipment-tracking-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shipmentsCollection = "shipments"
	countersCollection  = "counters"
)

// MongoStore keeps shipments in one collection with integer _id values drawn
// from a counter document.
type MongoStore struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		col:      db.Collection(shipmentsCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique order_number index. Must run before the
// first Insert for duplicates to be rejected.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_number", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("order_number_unique"),
	})
	return err
}

func (m *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": shipmentsCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next shipment id: %w", err)
	}
	return counter.Seq, nil
}

func (m *MongoStore) Insert(ctx context.Context, row model.Shipment) (int64, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return 0, err
	}
	row.ID = id

	if _, err := m.col.InsertOne(ctx, row); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (m *MongoStore) UpdateByID(ctx context.Context, id int64, u Update) (int64, error) {
	// updated_at advances by at least one millisecond on every update
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$literal", Value: string(u.Status)}}},
			{Key: "current_location", Value: bson.D{{Key: "$literal", Value: u.CurrentLocation}}},
			{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{"$updated_at", int64(1)}}},
				u.UpdatedAt,
			}}}},
		}}},
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoStore) FindOneByField(ctx context.Context, field Field, value string) (*model.Shipment, error) {
	var filter bson.M
	switch field {
	case FieldOrderNumber:
		filter = bson.M{"order_number": value}
	case FieldID:
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		filter = bson.M{"_id": id}
	default:
		return nil, ErrUnsupportedField
	}

	var res model.Shipment
	err := m.col.FindOne(ctx, filter).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res.UpdatedAt = res.UpdatedAt.UTC()
	return &res, nil
}

func (m *MongoStore) ListAllOrderedByIDDesc(ctx context.Context) ([]model.Shipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Shipment{}
	for cur.Next(ctx) {
		var v model.Shipment
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		v.UpdatedAt = v.UpdatedAt.UTC()
		out = append(out, v)
	}
	return out, cur.Err()
}
