package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrNotStruct      = errors.New("schema: model must be a struct or pointer to struct")
	ErrUnknownEntity  = errors.New("schema: unknown entity")
	ErrNotPointer     = errors.New("schema: destination must be a non-nil pointer")
	defaultRegistry   *Registry
	defaultRegistryMu sync.Mutex
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// Registry holds entity definitions and their relations. Lookups are map
// reads; reflection only happens when a type is first seen.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]*Entity
	byType   map[reflect.Type]*Entity
	naming   NamingStrategy
	ids      *GeneratorRegistry
	metaSize int

	// meta caches field layouts for types hydrated without registration.
	meta *lru.Cache[reflect.Type, *Entity]
}

// Option configures a Registry.
type Option func(*Registry)

// WithNamingStrategy sets the naming strategy for table and column names.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(r *Registry) { r.naming = strategy }
}

// WithCacheSize sets the LRU size for unregistered type metadata.
func WithCacheSize(size int) Option {
	return func(r *Registry) { r.metaSize = size }
}

// WithGenerators replaces the ID generator registry.
func WithGenerators(ids *GeneratorRegistry) Option {
	return func(r *Registry) { r.ids = ids }
}

func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		byName:   make(map[string]*Entity, 32),
		byType:   make(map[reflect.Type]*Entity, 32),
		naming:   DefaultNamingStrategy(),
		metaSize: 256,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.ids == nil {
		r.ids = NewGeneratorRegistry()
	}
	r.meta, _ = lru.New[reflect.Type, *Entity](r.metaSize)
	return r
}

// Naming returns the registry's naming strategy.
func (r *Registry) Naming() NamingStrategy {
	return r.naming
}

// Generators returns the ID generator registry.
func (r *Registry) Generators() *GeneratorRegistry {
	return r.ids
}

// Register describes a struct model. The table defaults to the naming
// strategy applied to the struct name unless the model implements TableNamer
// or WithTable is given. Relations come from WithRelations and Relator.
func (r *Registry) Register(model any, opts ...EntityOption) (*Entity, error) {
	t := indirectType(reflect.TypeOf(model))
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, model)
	}

	e, err := r.build(t)
	if err != nil {
		return nil, err
	}
	if namer, ok := reflect.New(t).Interface().(TableNamer); ok {
		e.Table = namer.TableName()
	}
	if relator, ok := reflect.New(t).Interface().(Relator); ok {
		WithRelations(relator.Relations()...)(e)
	}
	for _, opt := range opts {
		opt(e)
	}
	r.bindRelations(e)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = e
	r.byName[e.Table] = e
	r.byName[e.Name] = e
	return e, nil
}

// MustRegister is Register that panics, for package-level declarations.
func (r *Registry) MustRegister(model any, opts ...EntityOption) *Entity {
	e, err := r.Register(model, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Define describes a table without a Go type. Records of it stay maps.
// Defining an existing name returns the existing entity with opts applied.
func (r *Registry) Define(table string, opts ...EntityOption) *Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[table]
	if !ok {
		e = &Entity{
			Name:       table,
			Table:      table,
			PrimaryKey: "id",
			byColumn:   map[string]*Field{},
			relFields:  map[string]*Field{},
			relations:  map[string]*Relation{},
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	r.bindRelations(e)
	r.byName[e.Table] = e
	return e
}

// Lookup finds an entity by table name or struct name.
func (r *Registry) Lookup(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// EntityOf finds the entity registered for model's type.
func (r *Registry) EntityOf(model any) (*Entity, bool) {
	t := indirectType(reflect.TypeOf(model))
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byType[t]
	return e, ok
}

// entityFor returns the registered entity for t or a cached unregistered layout.
func (r *Registry) entityFor(t reflect.Type) (*Entity, error) {
	r.mu.RLock()
	e, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	if e, ok := r.meta.Get(t); ok {
		return e, nil
	}
	e, err := r.build(t)
	if err != nil {
		return nil, err
	}
	r.meta.Add(t, e)
	return e, nil
}

func (r *Registry) bindRelations(e *Entity) {
	for name, rel := range e.relations {
		e.relations[name] = rel.bind(r, e)
	}
}

// build reflects over a struct type. Embedded structs are flattened.
func (r *Registry) build(t reflect.Type) (*Entity, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	e := &Entity{
		Name:       t.Name(),
		Table:      r.naming.TableName(t.Name()),
		PrimaryKey: "id",
		Type:       t,
		byColumn:   make(map[string]*Field, t.NumField()),
		relFields:  map[string]*Field{},
		relations:  map[string]*Relation{},
	}
	if err := r.collectFields(e, t, nil); err != nil {
		return nil, err
	}
	for _, f := range e.fields {
		if f.Primary {
			e.PrimaryKey = f.Column
			e.generator = f.Generator
			break
		}
	}
	return e, nil
}

func (r *Registry) collectFields(e *Entity, t reflect.Type, parent []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		if sf.Anonymous && indirectType(sf.Type).Kind() == reflect.Struct && sf.Tag.Get("db") == "" {
			if sf.Type.Kind() == reflect.Pointer {
				// Pointer embeds would need allocation on every set.
				continue
			}
			if err := r.collectFields(e, sf.Type, index); err != nil {
				return err
			}
			continue
		}

		if rel := sf.Tag.Get("rel"); rel != "" {
			f := &Field{Name: sf.Name, Index: index, Type: sf.Type, Relation: rel}
			e.fields = append(e.fields, f)
			e.relFields[rel] = f
			continue
		}

		tag, err := parseTag(r.naming, sf.Name, sf.Tag)
		if err != nil {
			return err
		}
		if tag.Skip {
			continue
		}

		f := &Field{
			Name:       sf.Name,
			Column:     tag.ColumnName,
			Index:      index,
			Type:       sf.Type,
			Primary:    tag.Primary,
			Generator:  tag.Generator,
			AutoNowAdd: tag.AutoNowAdd,
			AutoNow:    tag.AutoNow,
		}
		e.fields = append(e.fields, f)
		e.byColumn[f.Column] = f
	}
	return nil
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
