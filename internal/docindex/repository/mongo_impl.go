package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"docindex/internal/docindex/metrics"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// typeField holds the index type of every stored document, so several
// entity types can share one collection.
const typeField = "_type"

// MongoDocumentRepository implements DocumentRepository using MongoDB.
// The collection is the entity's index name.
type MongoDocumentRepository[T any] struct {
	Collection *mongo.Collection
	Info       *EntityInformation

	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ DocumentRepository[struct{}] = (*MongoDocumentRepository[struct{}])(nil)

// NewMongoDocumentRepository creates a repository for T. info must describe
// T and T must have an id property. m may be nil.
func NewMongoDocumentRepository[T any](db *mongo.Database, info *EntityInformation, m *metrics.Metrics) (*MongoDocumentRepository[T], error) {
	if info == nil {
		return nil, fmt.Errorf("%w: entity information must not be nil", ErrInvalidArgument)
	}
	if want := reflect.TypeFor[T](); info.EntityType() != want {
		return nil, fmt.Errorf("%w: entity information describes %s, not %s", ErrInvalidArgument, info.EntityType(), want)
	}
	if _, err := info.IDAttribute(); err != nil {
		return nil, err
	}
	return &MongoDocumentRepository[T]{
		Collection: db.Collection(info.IndexName()),
		Info:       info,
		metrics:    m,
		logger:     slog.Default(),
	}, nil
}

func (r *MongoDocumentRepository[T]) EnsureIndexes(ctx context.Context) (err error) {
	defer r.record("ensure_indexes", time.Now(), &err)

	// Same keys and name for every type sharing the collection.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: typeField, Value: 1}},
			Options: options.Index().SetName("idx_type"),
		},
	}
	if parent, ok := r.Info.ParentIDAttribute(); ok {
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{
				{Key: typeField, Value: 1},
				{Key: parent, Value: 1},
			},
			Options: options.Index().SetName("idx_type_" + parent),
		})
	}

	_, err = r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoDocumentRepository[T]) Save(ctx context.Context, entity *T) (_ *T, err error) {
	defer r.record("save", time.Now(), &err)

	if entity == nil {
		return nil, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	id, err := r.prepareID(entity)
	if err != nil {
		return nil, err
	}

	versionField, versioned := r.Info.VersionAttribute()
	if !versioned {
		doc, err := r.toDocument(entity, id)
		if err != nil {
			return nil, err
		}
		_, err = r.Collection.ReplaceOne(ctx, r.filter(bson.M{"_id": id}), doc, options.Replace().SetUpsert(true))
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
		return entity, nil
	}

	isNew, err := r.Info.IsNew(entity)
	if err != nil {
		return nil, err
	}
	current, err := r.Info.Version(entity)
	if err != nil {
		return nil, err
	}
	var expected int64
	if current != nil {
		expected = *current
	}
	rollback, err := r.bumpVersion(entity, expected+1)
	if err != nil {
		return nil, err
	}

	doc, err := r.toDocument(entity, id)
	if err != nil {
		rollback()
		return nil, err
	}

	if isNew {
		if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
			rollback()
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
		return entity, nil
	}

	res, err := r.Collection.ReplaceOne(ctx, r.filter(bson.M{"_id": id, versionField: expected}), doc)
	if err != nil {
		rollback()
		return nil, err
	}
	if res.MatchedCount == 0 {
		rollback()
		return nil, fmt.Errorf("%w: %s %v is not at version %d", ErrVersionConflict, r.Info.IndexType(), id, expected)
	}
	return entity, nil
}

func (r *MongoDocumentRepository[T]) FindByID(ctx context.Context, id any) (_ *T, err error) {
	defer r.record("find_by_id", time.Now(), &err)

	var result T
	err = r.Collection.FindOne(ctx, r.filter(bson.M{"_id": id})).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *MongoDocumentRepository[T]) FindByParentID(ctx context.Context, parentID string) (_ []*T, err error) {
	defer r.record("find_by_parent_id", time.Now(), &err)

	parent, ok := r.Info.ParentIDAttribute()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no parent id property", ErrInvalidArgument, r.Info.Entity().Name())
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, r.filter(bson.M{parent: parentID}), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoDocumentRepository[T]) DeleteByID(ctx context.Context, id any) (err error) {
	defer r.record("delete_by_id", time.Now(), &err)

	res, err := r.Collection.DeleteOne(ctx, r.filter(bson.M{"_id": id}))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDocumentRepository[T]) Count(ctx context.Context) (_ int64, err error) {
	defer r.record("count", time.Now(), &err)
	return r.Collection.CountDocuments(ctx, r.filter(bson.M{}))
}

// prepareID returns the entity id, generating a UUID for empty string ids.
func (r *MongoDocumentRepository[T]) prepareID(entity *T) (any, error) {
	id, err := r.Info.ID(entity)
	if err != nil {
		return nil, err
	}
	if id != nil && !reflect.ValueOf(id).IsZero() {
		return id, nil
	}

	p, _ := r.Info.Entity().IDProperty()
	kind := p.Type.Kind()
	if kind == reflect.Pointer {
		kind = p.Type.Elem().Kind()
	}
	if kind != reflect.String {
		return nil, fmt.Errorf("%w: %s id must be set before saving", ErrInvalidArgument, r.Info.Entity().Name())
	}

	newID := uuid.NewString()
	if err := r.Info.Entity().PropertyAccessor(entity).SetProperty(p, newID); err != nil {
		return nil, fmt.Errorf("%w: failed to assign id: %w", ErrIllegalState, err)
	}
	return newID, nil
}

// bumpVersion sets the version property to v. The returned func puts back
// the value the field held before, nil included.
func (r *MongoDocumentRepository[T]) bumpVersion(entity *T, v int64) (func(), error) {
	p, _ := r.Info.Entity().VersionProperty()
	acc := r.Info.Entity().PropertyAccessor(entity)
	original, err := acc.Property(p)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load version field: %w", ErrIllegalState, err)
	}
	if err := acc.SetProperty(p, v); err != nil {
		return nil, fmt.Errorf("%w: failed to update version field: %w", ErrIllegalState, err)
	}
	return func() { _ = acc.SetProperty(p, original) }, nil
}

func (r *MongoDocumentRepository[T]) toDocument(entity *T, id any) (bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.Info.Entity().Name(), err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.Info.Entity().Name(), err)
	}
	doc["_id"] = id
	doc[typeField] = r.Info.IndexType()
	return doc, nil
}

func (r *MongoDocumentRepository[T]) filter(f bson.M) bson.M {
	f[typeField] = r.Info.IndexType()
	return f
}

func (r *MongoDocumentRepository[T]) record(operation string, start time.Time, err *error) {
	r.metrics.RecordOperation(r.Info.IndexName(), operation, start, *err)
	if *err != nil {
		r.logger.Debug("repository operation failed",
			"index", r.Info.IndexName(),
			"type", r.Info.IndexType(),
			"operation", operation,
			"error", *err,
		)
	}
}
