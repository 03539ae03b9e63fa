package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrInvalidType is returned when a type cannot be mapped.
	ErrInvalidType = errors.New("mapping: invalid entity type")
	// ErrDuplicateRole is returned when two fields claim the same role.
	ErrDuplicateRole = errors.New("mapping: duplicate property role")
	// ErrAccessor is returned when a property cannot be read or written.
	ErrAccessor = errors.New("mapping: property access failed")
)

const (
	tagRole = "es"
	tagBSON = "bson"

	roleID      = "id"
	roleVersion = "version"
	roleParent  = "parent"
)

// conventional id field names, checked case-insensitively in order.
var idNames = []string{"id", "documentid"}

func introspect(t reflect.Type) (*Entity, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidType)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is a %s, not a struct", ErrInvalidType, t, t.Kind())
	}

	e := &Entity{
		typ:  t,
		name: simpleName(t),
	}
	if err := e.collect(t, nil); err != nil {
		return nil, err
	}
	if e.id == nil {
		if p := conventionalID(e.properties); p != nil {
			p.IsID = true
			e.id = p
		}
	}
	e.indexName, e.indexType = documentNames(t, strings.ToLower(e.name))
	return e, nil
}

func (e *Entity) collect(t reflect.Type, path []int) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, inline, skip := parseBSON(f.Tag.Get(tagBSON))
		if skip {
			continue
		}
		index := append(append([]int(nil), path...), i)

		if f.Anonymous && inline {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := e.collect(ft, index); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		if key == "" {
			key = strings.ToLower(f.Name)
		}
		p := &Property{
			Name:      f.Name,
			FieldName: key,
			Type:      f.Type,
			index:     index,
			owner:     e.typ,
		}
		if err := e.assignRoles(p, f.Tag.Get(tagRole)); err != nil {
			return err
		}
		e.properties = append(e.properties, p)
	}
	return nil
}

func (e *Entity) assignRoles(p *Property, tag string) error {
	if tag == "" {
		return nil
	}
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "":
		case roleID:
			if e.id != nil {
				return fmt.Errorf("%w: %s has id fields %s and %s", ErrDuplicateRole, e.name, e.id.Name, p.Name)
			}
			p.IsID = true
			e.id = p
		case roleVersion:
			if e.version != nil {
				return fmt.Errorf("%w: %s has version fields %s and %s", ErrDuplicateRole, e.name, e.version.Name, p.Name)
			}
			p.IsVersion = true
			e.version = p
		case roleParent:
			if e.parent != nil {
				return fmt.Errorf("%w: %s has parent fields %s and %s", ErrDuplicateRole, e.name, e.parent.Name, p.Name)
			}
			p.IsParentID = true
			e.parent = p
		default:
			return fmt.Errorf("%w: unknown %s tag option %q on %s.%s", ErrInvalidType, tagRole, opt, e.name, p.Name)
		}
	}
	return nil
}

// parseBSON splits a bson struct tag into its key and the inline flag.
func parseBSON(tag string) (key string, inline, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	key = parts[0]
	for _, opt := range parts[1:] {
		if opt == "inline" {
			inline = true
		}
	}
	return key, inline, false
}

func conventionalID(props []*Property) *Property {
	for _, name := range idNames {
		for _, p := range props {
			if strings.EqualFold(p.Name, name) {
				return p
			}
		}
	}
	for _, p := range props {
		if p.FieldName == "_id" {
			return p
		}
	}
	return nil
}

func documentNames(t reflect.Type, fallback string) (indexName, indexType string) {
	indexName, indexType = fallback, fallback

	candidates := []any{reflect.Zero(t).Interface(), reflect.New(t).Interface()}
	for _, c := range candidates {
		if n, ok := c.(IndexNamer); ok {
			if name := n.IndexName(); name != "" {
				indexName = name
			}
			break
		}
	}
	for _, c := range candidates {
		if n, ok := c.(IndexTyper); ok {
			if typ := n.IndexType(); typ != "" {
				indexType = typ
			}
			break
		}
	}
	return indexName, indexType
}

// simpleName strips generic instantiation parameters: "Box[int]" -> "Box".
func simpleName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
