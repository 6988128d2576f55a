package model

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/observability"
)

const modelCollection = "models"

// modelDoc is the stored document shape. The model name doubles as the
// document ID so Put is a single upsert.
type modelDoc struct {
	Name      string    `bson:"_id"`
	Model     *Model    `bson:"model"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore stores models in a MongoDB collection, one document per
// model. It is the server backend for multi-instance deployments where a
// shared [FileStore] directory is not available.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and stores models in the
// "models" collection of the given database. The connection is verified
// with a ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(modelCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Model, error) {
	start := time.Now()
	m, err := s.get(ctx, name)
	observability.Store().OnLoad(ctx, "mongo", name, time.Since(start), err)
	return m, err
}

func (s *MongoStore) get(ctx context.Context, name string) (*Model, error) {
	if err := errors.ValidateModelName(name); err != nil {
		return nil, err
	}
	var doc modelDoc
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeModelNotFound, "model not found: %s", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find model %s", name)
	}
	if doc.Model == nil {
		return &Model{}, nil
	}
	return doc.Model, nil
}

func (s *MongoStore) Put(ctx context.Context, name string, m *Model) error {
	start := time.Now()
	err := s.put(ctx, name, m)
	observability.Store().OnSave(ctx, "mongo", name, time.Since(start), err)
	return err
}

func (s *MongoStore) put(ctx context.Context, name string, m *Model) error {
	if err := errors.ValidateModelName(name); err != nil {
		return err
	}
	m.EnsureKeys()
	if err := m.Validate(); err != nil {
		return err
	}

	doc := modelDoc{Name: name, Model: m, UpdatedAt: time.Now().UTC()}
	_, err := s.col.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store model %s", name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	err := s.delete(ctx, name)
	observability.Store().OnDelete(ctx, "mongo", name, err)
	return err
}

func (s *MongoStore) delete(ctx context.Context, name string) error {
	if err := errors.ValidateModelName(name); err != nil {
		return err
	}
	if _, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: name}}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete model %s", name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list models")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode model name")
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list models")
	}
	return names, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
