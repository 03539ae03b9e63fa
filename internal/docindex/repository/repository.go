package repository

import (
	"context"
)

// DocumentRepository stores entities of type T in the index described by
// their EntityInformation.
type DocumentRepository[T any] interface {
	// Save inserts or replaces the entity. A missing string id is generated
	// and a version property, when present, is checked and incremented.
	Save(ctx context.Context, entity *T) (*T, error)
	// FindByID returns ErrNotFound when no document has the id
	FindByID(ctx context.Context, id any) (*T, error)
	// FindByParentID lists the children of a parent document
	FindByParentID(ctx context.Context, parentID string) ([]*T, error)
	// DeleteByID returns ErrNotFound when no document has the id
	DeleteByID(ctx context.Context, id any) error
	// Count the documents of this entity type
	Count(ctx context.Context) (int64, error)
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
}
