package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a testify mock of repository.DocumentRepository.
type MockDocumentRepository[T any] struct {
	mock.Mock
}

func (m *MockDocumentRepository[T]) Save(ctx context.Context, entity *T) (*T, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockDocumentRepository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockDocumentRepository[T]) FindByParentID(ctx context.Context, parentID string) ([]*T, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*T), args.Error(1)
}

func (m *MockDocumentRepository[T]) DeleteByID(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository[T]) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository[T]) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
