package repository

import (
	"context"
	"testing"

	"docindex/internal/docindex/mapping"
	"docindex/internal/docindex/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type tinyVersion struct {
	ID      string `bson:"_id"`
	Version uint8  `es:"version"`
}

func newRepo[T any](mt *mtest.T, m *metrics.Metrics) *MongoDocumentRepository[T] {
	mt.Helper()
	info := infoOf[T](mt.T)
	repo, err := NewMongoDocumentRepository[T](mt.DB, info, m)
	require.NoError(mt, err)
	return repo
}

func TestNewMongoDocumentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("collection is the index name", func(mt *mtest.T) {
		repo := newRepo[comment](mt, nil)
		assert.Equal(mt, "articles", repo.Collection.Name())
	})

	mt.Run("nil information is rejected", func(mt *mtest.T) {
		_, err := NewMongoDocumentRepository[article](mt.DB, nil, nil)
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})

	mt.Run("information for another type is rejected", func(mt *mtest.T) {
		_, err := NewMongoDocumentRepository[article](mt.DB, infoOf[comment](mt.T), nil)
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})

	mt.Run("type without id is rejected", func(mt *mtest.T) {
		_, err := NewMongoDocumentRepository[anonymous](mt.DB, infoOf[anonymous](mt.T), nil)
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})
}

func TestMongoDocumentRepository_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("new versioned document is inserted at version 1", func(mt *mtest.T) {
		m := metrics.NewMetrics()
		repo := newRepo[article](mt, m)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		saved, err := repo.Save(ctx, &article{Title: "hello"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, saved.ID)
		assert.Equal(mt, int64(1), saved.Version)
		assert.Equal(mt, 1.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("articles", "save", "success")))
	})

	mt.Run("duplicate insert restores the version", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		a := &article{ID: "a1", Title: "hello"}
		_, err := repo.Save(ctx, a)
		assert.ErrorIs(mt, err, ErrDuplicate)
		assert.Equal(mt, int64(0), a.Version)
	})

	mt.Run("duplicate insert restores a nil pointer version", func(mt *mtest.T) {
		repo := newRepo[pointerVersion](mt, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		p := &pointerVersion{ID: "p1"}
		_, err := repo.Save(ctx, p)
		assert.ErrorIs(mt, err, ErrDuplicate)
		assert.Nil(mt, p.Version)

		isNew, err := repo.Info.IsNew(p)
		require.NoError(mt, err)
		assert.True(mt, isNew)
	})

	mt.Run("pointer version at zero is replaced, not inserted", func(mt *mtest.T) {
		repo := newRepo[pointerVersion](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		zero := int64(0)
		p := &pointerVersion{ID: "p1", Version: &zero}
		isNew, err := repo.Info.IsNew(p)
		require.NoError(mt, err)
		require.False(mt, isNew)

		saved, err := repo.Save(ctx, p)
		require.NoError(mt, err)
		require.NotNil(mt, saved.Version)
		assert.Equal(mt, int64(1), *saved.Version)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("nil pointer version is inserted", func(mt *mtest.T) {
		repo := newRepo[pointerVersion](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		saved, err := repo.Save(ctx, &pointerVersion{ID: "p2"})
		require.NoError(mt, err)
		require.NotNil(mt, saved.Version)
		assert.Equal(mt, int64(1), *saved.Version)
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("failed replace restores a pointer version", func(mt *mtest.T) {
		repo := newRepo[pointerVersion](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		four := int64(4)
		p := &pointerVersion{ID: "p1", Version: &four}
		_, err := repo.Save(ctx, p)
		assert.ErrorIs(mt, err, ErrVersionConflict)
		require.NotNil(mt, p.Version)
		assert.Equal(mt, int64(4), *p.Version)
	})

	mt.Run("version overflow is rejected before writing", func(mt *mtest.T) {
		repo := newRepo[tinyVersion](mt, nil)

		d := &tinyVersion{ID: "t1", Version: 255}
		_, err := repo.Save(ctx, d)
		assert.ErrorIs(mt, err, ErrIllegalState)
		assert.ErrorIs(mt, err, mapping.ErrAccessor)
		assert.Equal(mt, uint8(255), d.Version)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("existing document is replaced and version incremented", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		saved, err := repo.Save(ctx, &article{ID: "a1", Title: "edited", Version: 2})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), saved.Version)
	})

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		m := metrics.NewMetrics()
		repo := newRepo[article](mt, m)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		a := &article{ID: "a1", Title: "edited", Version: 2}
		_, err := repo.Save(ctx, a)
		assert.ErrorIs(mt, err, ErrVersionConflict)
		assert.Equal(mt, int64(2), a.Version)
		assert.Equal(mt, 1.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("articles", "save", "error")))
	})

	mt.Run("unversioned document is upserted", func(mt *mtest.T) {
		repo := newRepo[comment](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		saved, err := repo.Save(ctx, &comment{ArticleID: "a1", Body: "nice"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, saved.ID)
		assert.Equal(mt, "a1", saved.ArticleID)
	})

	mt.Run("zero non string id is rejected", func(mt *mtest.T) {
		repo := newRepo[counter](mt, nil)
		_, err := repo.Save(ctx, &counter{})
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})

	mt.Run("nil entity is rejected", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		_, err := repo.Save(ctx, nil)
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})
}

func TestMongoDocumentRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by id decodes the document", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.articles", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "a1"},
			{Key: "_type", Value: "article"},
			{Key: "title", Value: "hello"},
			{Key: "version", Value: int64(2)},
		}))

		got, err := repo.FindByID(ctx, "a1")
		require.NoError(mt, err)
		assert.Equal(mt, &article{ID: "a1", Title: "hello", Version: 2}, got)
	})

	mt.Run("find by id without match", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.articles", mtest.FirstBatch))

		got, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, got)
	})

	mt.Run("find by parent id lists children", func(mt *mtest.T) {
		repo := newRepo[comment](mt, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.articles", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "c1"}, {Key: "article_id", Value: "a1"}, {Key: "body", Value: "first"}},
			bson.D{{Key: "_id", Value: "c2"}, {Key: "article_id", Value: "a1"}, {Key: "body", Value: "second"}},
		))

		got, err := repo.FindByParentID(ctx, "a1")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "c1", got[0].ID)
		assert.Equal(mt, "second", got[1].Body)
	})

	mt.Run("find by parent id needs a parent property", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		_, err := repo.FindByParentID(ctx, "a1")
		assert.ErrorIs(mt, err, ErrInvalidArgument)
	})

	mt.Run("count documents of the type", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.articles", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		n, err := repo.Count(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestMongoDocumentRepository_DeleteAndIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("delete existing document", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.DeleteByID(ctx, "a1"))
	})

	mt.Run("delete missing document", func(mt *mtest.T) {
		repo := newRepo[article](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.DeleteByID(ctx, "a1"), ErrNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := newRepo[comment](mt, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.EnsureIndexes(ctx))
	})
}
