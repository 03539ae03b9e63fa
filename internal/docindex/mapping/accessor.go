package mapping

import (
	"fmt"
	"math"
	"reflect"
)

type accessor struct {
	owner reflect.Type
	value reflect.Value
	err   error
}

var _ PropertyAccessor = (*accessor)(nil)

func newAccessor(owner reflect.Type, instance any) *accessor {
	a := &accessor{owner: owner}
	if instance == nil {
		a.err = fmt.Errorf("%w: nil %s instance", ErrAccessor, owner.Name())
		return a
	}
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			a.err = fmt.Errorf("%w: nil %s pointer", ErrAccessor, owner.Name())
			return a
		}
		v = v.Elem()
	}
	if v.Type() != owner {
		a.err = fmt.Errorf("%w: instance of %s is not a %s", ErrAccessor, v.Type(), owner)
		return a
	}
	a.value = v
	return a
}

func (a *accessor) check(p *Property) error {
	if a.err != nil {
		return a.err
	}
	if p == nil {
		return fmt.Errorf("%w: nil property", ErrAccessor)
	}
	if p.owner != nil && p.owner != a.owner {
		return fmt.Errorf("%w: property %s belongs to %s, not %s", ErrAccessor, p.Name, p.owner, a.owner)
	}
	return nil
}

func (a *accessor) Property(p *Property) (val any, err error) {
	if err := a.check(p); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, fmt.Errorf("%w: reading %s.%s: %v", ErrAccessor, a.owner.Name(), p.Name, r)
		}
	}()

	f, ok := walk(a.value, p.index, false)
	if !ok {
		return nil, nil
	}
	for f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface {
		if f.IsNil() {
			return nil, nil
		}
		f = f.Elem()
	}
	return f.Interface(), nil
}

func (a *accessor) SetProperty(p *Property, value any) (err error) {
	if err := a.check(p); err != nil {
		return err
	}
	if !a.value.CanAddr() {
		return fmt.Errorf("%w: %s instance is not addressable, pass a pointer", ErrAccessor, a.owner.Name())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: writing %s.%s: %v", ErrAccessor, a.owner.Name(), p.Name, r)
		}
	}()

	f, _ := walk(a.value, p.index, true)
	target := f.Type()
	if value == nil {
		f.Set(reflect.Zero(target))
		return nil
	}

	rv := reflect.ValueOf(value)
	if target.Kind() == reflect.Pointer && !rv.Type().AssignableTo(target) {
		ev, err := convert(rv, target.Elem())
		if err != nil {
			return err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(ev)
		f.Set(ptr)
		return nil
	}

	cv, err := convert(rv, target)
	if err != nil {
		return err
	}
	f.Set(cv)
	return nil
}

// walk follows an index path, stepping through embedded pointers. With
// alloc set, nil embedded pointers are allocated; otherwise ok is false.
func walk(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func convert(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	// int -> string is a rune conversion in Go, never what a caller means.
	if t.Kind() == reflect.String && v.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("%w: cannot assign %s to %s", ErrAccessor, v.Type(), t)
	}
	if v.Type().ConvertibleTo(t) {
		if overflows(v, t) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrAccessor, v.Interface(), t)
		}
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot assign %s to %s", ErrAccessor, v.Type(), t)
}

// overflows reports whether converting the integer v to t would truncate
// or change its sign.
func overflows(v reflect.Value, t reflect.Type) bool {
	z := reflect.Zero(t)
	switch {
	case isInt(v.Kind()):
		n := v.Int()
		if isInt(t.Kind()) {
			return z.OverflowInt(n)
		}
		if isUint(t.Kind()) {
			return n < 0 || z.OverflowUint(uint64(n))
		}
	case isUint(v.Kind()):
		n := v.Uint()
		if isInt(t.Kind()) {
			return n > math.MaxInt64 || z.OverflowInt(int64(n))
		}
		if isUint(t.Kind()) {
			return z.OverflowUint(n)
		}
	}
	return false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}
