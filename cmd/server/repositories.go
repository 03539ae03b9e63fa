package main

import (
	"docindex/internal/docindex/mapping"
	"docindex/internal/docindex/metrics"
	"docindex/internal/docindex/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// newRepository maps T and binds it to its index, prefixed for this
// deployment.
func newRepository[T any](db *mongo.Database, mappings *mapping.Context, prefix string, m *metrics.Metrics) (*repository.MongoDocumentRepository[T], error) {
	entity, err := mapping.EntityFor[T](mappings)
	if err != nil {
		return nil, err
	}
	info, err := repository.NewEntityInformationWithIndex(entity, prefixedIndex(prefix, entity.IndexName()), entity.IndexType())
	if err != nil {
		return nil, err
	}
	return repository.NewMongoDocumentRepository[T](db, info, m)
}

func prefixedIndex(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
