package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyforge/internal/model"
)

// ResponseRepo mirrors submissions written to Notion
type ResponseRepo interface {
	Upsert(ctx context.Context, record *model.ResponseRecord) error
	GetByResponseID(ctx context.Context, responseID string) (*model.ResponseRecord, error)
	ListByDatabase(ctx context.Context, databaseID string, limit int) ([]*model.ResponseRecord, error)
	CountByDatabase(ctx context.Context, databaseID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository with indexes
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	repo := &responseRepo{
		collection: db.Collection("responses"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *responseRepo) ensureIndexes(ctx context.Context) {
	createIndex(ctx, r.collection, bson.D{{Key: "response_id", Value: 1}}, true)
	createIndex(ctx, r.collection, bson.D{
		{Key: "database_id", Value: 1},
		{Key: "submitted_at", Value: -1},
	}, false)
	log.Println("Response indexes ensured")
}

func (r *responseRepo) Upsert(ctx context.Context, record *model.ResponseRecord) error {
	data, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	record.PayloadJSON = string(data)
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	_, err = r.collection.ReplaceOne(ctx,
		bson.M{"response_id": record.ResponseID},
		record,
		opts,
	)
	return err
}

func (r *responseRepo) GetByResponseID(ctx context.Context, responseID string) (*model.ResponseRecord, error) {
	var record model.ResponseRecord
	err := r.collection.FindOne(ctx, bson.M{"response_id": responseID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := decodePayload(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByDatabase returns the newest submissions first; limit <= 0 means all
func (r *responseRepo) ListByDatabase(ctx context.Context, databaseID string, limit int) ([]*model.ResponseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"database_id": databaseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.ResponseRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := decodePayload(rec); err != nil {
			log.Printf("[Responses] skipping payload of %s: %v", rec.ResponseID, err)
		}
	}
	return records, nil
}

func (r *responseRepo) CountByDatabase(ctx context.Context, databaseID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"database_id": databaseID})
}

func decodePayload(record *model.ResponseRecord) error {
	if record.PayloadJSON == "" {
		return nil
	}
	var payload model.ResponsePayload
	if err := json.Unmarshal([]byte(record.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("invalid payload for %s: %w", record.ResponseID, err)
	}
	record.Payload = payload
	return nil
}
