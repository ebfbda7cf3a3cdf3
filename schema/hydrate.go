package schema

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/querykit/record"
)

// Hydrate copies rec into the struct dest points to. Columns without a
// matching field are ignored. Fields tagged `rel:"name"` receive the records
// eager loading attached under name.
func (r *Registry) Hydrate(rec *record.Record, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: %T", ErrNotPointer, dest)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrNotStruct, dest)
	}

	e, err := r.entityFor(v.Type())
	if err != nil {
		return err
	}
	return r.hydrate(e, rec, v)
}

// HydrateAs hydrates rec into a new T using the default registry.
func HydrateAs[T any](rec *record.Record) (*T, error) {
	return HydrateWith[T](Default(), rec)
}

// HydrateWith hydrates rec into a new T using reg.
func HydrateWith[T any](reg *Registry, rec *record.Record) (*T, error) {
	out := new(T)
	if err := reg.Hydrate(rec, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) hydrate(e *Entity, rec *record.Record, v reflect.Value) error {
	var err error
	rec.Each(func(key string, value any) bool {
		if f, ok := e.byColumn[key]; ok {
			var converted reflect.Value
			converted, err = Convert(value, f.Type)
			if err != nil {
				err = fmt.Errorf("schema: column %s into %s.%s: %w", key, e.Name, f.Name, err)
				return false
			}
			v.FieldByIndex(f.Index).Set(converted)
			return true
		}
		if f, ok := e.relFields[key]; ok {
			if err = r.hydrateRelation(f, value, v.FieldByIndex(f.Index)); err != nil {
				err = fmt.Errorf("schema: relation %s into %s.%s: %w", key, e.Name, f.Name, err)
				return false
			}
		}
		return true
	})
	return err
}

// hydrateRelation fills a slice field from []*record.Record or a struct /
// pointer field from *record.Record. nil leaves the zero value.
func (r *Registry) hydrateRelation(f *Field, value any, field reflect.Value) error {
	switch data := value.(type) {
	case nil:
		field.Set(reflect.Zero(f.Type))
		return nil
	case *record.Record:
		if data == nil {
			field.Set(reflect.Zero(f.Type))
			return nil
		}
		elem, err := r.newElem(f.Type, data)
		if err != nil {
			return err
		}
		field.Set(elem)
		return nil
	case []*record.Record:
		if f.Type.Kind() != reflect.Slice {
			return fmt.Errorf("field type %s cannot hold a list", f.Type)
		}
		out := reflect.MakeSlice(f.Type, 0, len(data))
		for _, rec := range data {
			elem, err := r.newElem(f.Type.Elem(), rec)
			if err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		field.Set(out)
		return nil
	default:
		return fmt.Errorf("unexpected relation value %T", value)
	}
}

// newElem builds a T or *T from rec.
func (r *Registry) newElem(t reflect.Type, rec *record.Record) (reflect.Value, error) {
	base := indirectType(t)
	if base.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	e, err := r.entityFor(base)
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(base)
	if err := r.hydrate(e, rec, ptr.Elem()); err != nil {
		return reflect.Value{}, err
	}
	if t.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}
