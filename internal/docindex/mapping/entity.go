// Package mapping describes how Go structs map onto indexed documents.
//
// An entity is a struct type whose exported fields become document fields.
// Field names follow the bson tag (or the lower-cased Go name, as the Mongo
// driver does), and the `es` tag marks the special roles:
//
//	type Article struct {
//	    ID      string `bson:"_id" es:"id"`
//	    Version int64  `bson:"version" es:"version"`
//	    Parent  string `bson:"parent_id" es:"parent"`
//	}
//
// A type may implement IndexNamer and/or IndexTyper to choose where its
// documents are stored; both default to the lower-cased type name.
package mapping

import (
	"reflect"
)

// PersistentEntity is the metadata of one mapped type.
type PersistentEntity interface {
	// Type is the mapped struct type.
	Type() reflect.Type
	// Name is the simple type name, without package or type parameters.
	Name() string
	IndexName() string
	IndexType() string
	IDProperty() (*Property, bool)
	VersionProperty() (*Property, bool)
	ParentIDProperty() (*Property, bool)
	Properties() []*Property
	// PropertyAccessor binds the metadata to one instance of the type.
	PropertyAccessor(instance any) PropertyAccessor
}

// PropertyAccessor reads and writes mapped fields of a single instance.
type PropertyAccessor interface {
	// Property returns the field value. Pointer fields are dereferenced and
	// a nil pointer anywhere on the path yields (nil, nil).
	Property(p *Property) (any, error)
	// SetProperty assigns value to the field, allocating intermediate
	// pointers. The instance must have been passed as a pointer.
	SetProperty(p *Property, value any) error
}

// IndexNamer lets a type pick the index its documents are stored in.
type IndexNamer interface {
	IndexName() string
}

// IndexTyper lets a type pick its document type inside the index.
type IndexTyper interface {
	IndexType() string
}

// Property describes one mapped struct field.
type Property struct {
	// Name is the Go field name.
	Name string
	// FieldName is the key the field is stored under.
	FieldName string
	Type      reflect.Type

	IsID       bool
	IsVersion  bool
	IsParentID bool

	index []int
	owner reflect.Type
}

// Index returns a copy of the field index path inside the owning struct.
func (p *Property) Index() []int {
	return append([]int(nil), p.index...)
}

// Entity is the reflect-backed PersistentEntity built by a Context.
type Entity struct {
	typ        reflect.Type
	name       string
	indexName  string
	indexType  string
	properties []*Property

	id      *Property
	version *Property
	parent  *Property
}

var _ PersistentEntity = (*Entity)(nil)

func (e *Entity) Type() reflect.Type { return e.typ }
func (e *Entity) Name() string       { return e.name }
func (e *Entity) IndexName() string  { return e.indexName }
func (e *Entity) IndexType() string  { return e.indexType }

func (e *Entity) IDProperty() (*Property, bool)       { return e.id, e.id != nil }
func (e *Entity) VersionProperty() (*Property, bool)  { return e.version, e.version != nil }
func (e *Entity) ParentIDProperty() (*Property, bool) { return e.parent, e.parent != nil }

// Properties returns the mapped properties in declaration order.
func (e *Entity) Properties() []*Property {
	return append([]*Property(nil), e.properties...)
}

// Property looks up a property by Go field name or stored field name.
func (e *Entity) Property(name string) (*Property, bool) {
	for _, p := range e.properties {
		if p.Name == name || p.FieldName == name {
			return p, true
		}
	}
	return nil, false
}

func (e *Entity) PropertyAccessor(instance any) PropertyAccessor {
	return newAccessor(e.typ, instance)
}
