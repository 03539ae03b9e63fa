package repository

import (
	"fmt"
	"math"
	"reflect"

	"docindex/internal/docindex/mapping"
)

// EntityInformation binds the mapping metadata of one entity type to the
// index it is stored in, and reads identity, version and parent id off
// instances of that type. It is immutable and safe for concurrent use.
type EntityInformation struct {
	entity    mapping.PersistentEntity
	indexName string
	indexType string
}

// NewEntityInformation uses the index name and type declared by the entity.
func NewEntityInformation(entity mapping.PersistentEntity) (*EntityInformation, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	return NewEntityInformationWithIndex(entity, entity.IndexName(), entity.IndexType())
}

// NewEntityInformationWithIndex overrides where the entity is stored.
// Both indexName and indexType are required.
func NewEntityInformationWithIndex(entity mapping.PersistentEntity, indexName, indexType string) (*EntityInformation, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	if indexName == "" {
		return nil, fmt.Errorf("%w: IndexName must not be empty", ErrInvalidArgument)
	}
	if indexType == "" {
		return nil, fmt.Errorf("%w: IndexType must not be empty", ErrInvalidArgument)
	}
	return &EntityInformation{
		entity:    entity,
		indexName: indexName,
		indexType: indexType,
	}, nil
}

func (i *EntityInformation) IndexName() string { return i.indexName }
func (i *EntityInformation) IndexType() string { return i.indexType }

// EntityType is the mapped Go type.
func (i *EntityInformation) EntityType() reflect.Type { return i.entity.Type() }

// Entity returns the underlying mapping metadata.
func (i *EntityInformation) Entity() mapping.PersistentEntity { return i.entity }

// IDAttribute returns the stored field name of the id property.
func (i *EntityInformation) IDAttribute() (string, error) {
	p, ok := i.entity.IDProperty()
	if !ok {
		return "", fmt.Errorf(
			"%w: unable to identify 'id' property in type %s. Make sure the 'id' property is tagged with `es:\"id\"` or named ID or DocumentID",
			ErrInvalidArgument, i.entity.Name())
	}
	return p.FieldName, nil
}

// VersionAttribute returns the stored field name of the version property.
func (i *EntityInformation) VersionAttribute() (string, bool) {
	p, ok := i.entity.VersionProperty()
	if !ok {
		return "", false
	}
	return p.FieldName, true
}

// ParentIDAttribute returns the stored field name of the parent id property.
func (i *EntityInformation) ParentIDAttribute() (string, bool) {
	p, ok := i.entity.ParentIDProperty()
	if !ok {
		return "", false
	}
	return p.FieldName, true
}

// ID reads the id of entity. It is nil when the type has no id property
// or the value is absent.
func (i *EntityInformation) ID(entity any) (any, error) {
	p, ok := i.entity.IDProperty()
	if !ok {
		return nil, nil
	}
	v, err := i.read(entity, p)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load id: %w", ErrIllegalState, err)
	}
	return v, nil
}

// IsNew reports whether entity has never been stored. A version property
// decides when present: nil for pointer versions, zero otherwise. Without
// one, an absent or zero id means new.
func (i *EntityInformation) IsNew(entity any) (bool, error) {
	if p, ok := i.entity.VersionProperty(); ok {
		v, err := i.read(entity, p)
		if err != nil {
			return false, fmt.Errorf("%w: failed to load version field: %w", ErrIllegalState, err)
		}
		if v == nil {
			return true, nil
		}
		if p.Type != nil && p.Type.Kind() == reflect.Pointer {
			return false, nil
		}
		return reflect.ValueOf(v).IsZero(), nil
	}

	if _, err := i.IDAttribute(); err != nil {
		return false, err
	}
	id, err := i.ID(entity)
	if err != nil {
		return false, err
	}
	return id == nil || reflect.ValueOf(id).IsZero(), nil
}

// Version reads the optimistic-lock version of entity. It is nil when the
// type has no version property or the value is absent.
func (i *EntityInformation) Version(entity any) (*int64, error) {
	p, ok := i.entity.VersionProperty()
	if !ok {
		return nil, nil
	}
	v, err := i.read(entity, p)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load version field: %w", ErrIllegalState, err)
	}
	if v == nil {
		return nil, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load version field: %w", ErrIllegalState, err)
	}
	return &n, nil
}

// ParentID reads the parent document id of entity. It is nil when the type
// has no parent property or the value is absent.
func (i *EntityInformation) ParentID(entity any) (*string, error) {
	p, ok := i.entity.ParentIDProperty()
	if !ok {
		return nil, nil
	}
	v, err := i.read(entity, p)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load parent ID: %w", ErrIllegalState, err)
	}
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		err = fmt.Errorf("parent id of type %T is not a string", v)
		return nil, fmt.Errorf("%w: failed to load parent ID: %w", ErrIllegalState, err)
	}
	s := rv.String()
	return &s, nil
}

// read goes through the entity's accessor, turning panics from foreign
// PersistentEntity implementations into errors.
func (i *EntityInformation) read(entity any, p *mapping.Property) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("reading %s: %v", p.Name, r)
		}
	}()
	return i.entity.PropertyAccessor(entity).Property(p)
}

func toInt64(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("version %d overflows int64", u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("version of type %T is not an integer", v)
}
