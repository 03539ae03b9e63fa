package mapping

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Context builds persistent entities on first use and caches them per type.
// It is safe for concurrent use.
type Context struct {
	logger   *slog.Logger
	entities sync.Map // map[reflect.Type]*Entity
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used to report newly mapped types.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewContext(opts ...Option) *Context {
	c := &Context{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PersistentEntity returns the metadata for t, building it on first use.
// Pointer types resolve to their element type.
func (c *Context) PersistentEntity(t reflect.Type) (*Entity, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidType)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v, ok := c.entities.Load(t); ok {
		return v.(*Entity), nil
	}

	e, err := introspect(t)
	if err != nil {
		return nil, err
	}

	actual, loaded := c.entities.LoadOrStore(t, e)
	if !loaded {
		c.logger.Debug("mapped persistent entity",
			"type", e.Name(),
			"index", e.IndexName(),
			"index_type", e.IndexType(),
			"properties", len(e.properties),
		)
	}
	return actual.(*Entity), nil
}

// PersistentEntityOf returns the metadata for the dynamic type of v.
func (c *Context) PersistentEntityOf(v any) (*Entity, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	return c.PersistentEntity(reflect.TypeOf(v))
}

// EntityFor returns the metadata for T.
func EntityFor[T any](c *Context) (*Entity, error) {
	return c.PersistentEntity(reflect.TypeFor[T]())
}

// Entities returns a snapshot of every mapped entity, ordered by name.
func (c *Context) Entities() []*Entity {
	var out []*Entity
	c.entities.Range(func(_, value any) bool {
		out = append(out, value.(*Entity))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].Type().String() < out[j].Type().String()
	})
	return out
}

// Lookup finds an already mapped entity by simple type name, ignoring case.
func (c *Context) Lookup(name string) (*Entity, bool) {
	for _, e := range c.Entities() {
		if strings.EqualFold(e.Name(), name) {
			return e, true
		}
	}
	return nil, false
}
