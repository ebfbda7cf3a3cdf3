package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/querykit/record"
)

// Values turns a struct into an ordered write payload. A zero primary key is
// filled from the entity's generator when one is configured, and written
// back into model when it is a pointer. Otherwise a zero primary key is left
// out so the database can assign it. Relation fields are never written.
func (r *Registry) Values(model any) (*record.Record, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotStruct, model)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, model)
	}

	e, err := r.entityFor(v.Type())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := record.New(len(e.fields))
	for _, f := range e.Fields() {
		fv := v.FieldByIndex(f.Index)

		if f.Column == e.PrimaryKey && fv.IsZero() {
			gen := e.generator
			if f.Generator != "" {
				gen = f.Generator
			}
			if gen == "" {
				continue
			}
			id, err := r.ids.Generate(gen)
			if err != nil {
				return nil, err
			}
			converted, err := Convert(id, f.Type)
			if err != nil {
				return nil, fmt.Errorf("schema: generated %s id for %s: %w", gen, e.Name, err)
			}
			if fv.CanSet() {
				fv.Set(converted)
			}
			out.Set(f.Column, converted.Interface())
			continue
		}

		if (f.AutoNowAdd || f.AutoNow) && fv.IsZero() && f.Type == timeType {
			if fv.CanSet() {
				fv.Set(reflect.ValueOf(now))
			}
			out.Set(f.Column, now)
			continue
		}

		out.Set(f.Column, fv.Interface())
	}
	return out, nil
}
