package schema

import (
	"reflect"
	"sort"
)

// Field maps one struct field to a column or to an eager-loaded relation.
type Field struct {
	Name       string
	Column     string
	Index      []int
	Type       reflect.Type
	Primary    bool
	Generator  string
	AutoNowAdd bool
	AutoNow    bool
	// Relation is set for `rel:"name"` fields, which are filled from attached
	// relation data instead of a column.
	Relation string
}

// Entity is the registered description of a table.
type Entity struct {
	Name       string
	Table      string
	PrimaryKey string
	// Type is nil for table-only entities created with Define.
	Type reflect.Type

	fields    []*Field
	byColumn  map[string]*Field
	relFields map[string]*Field
	relations map[string]*Relation
	generator string
}

// Relation returns the relation declared under name.
func (e *Entity) Relation(name string) (*Relation, bool) {
	r, ok := e.relations[name]
	return r, ok
}

// Relations returns the declared relation names in lexical order.
func (e *Entity) Relations() []string {
	names := make([]string, 0, len(e.relations))
	for name := range e.relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns the column-mapped fields in struct order.
func (e *Entity) Fields() []*Field {
	out := make([]*Field, 0, len(e.fields))
	for _, f := range e.fields {
		if f.Relation == "" {
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a column-mapped field.
func (e *Entity) Field(column string) (*Field, bool) {
	f, ok := e.byColumn[column]
	return f, ok
}

// Columns lists the mapped column names in struct order.
func (e *Entity) Columns() []string {
	fields := e.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return cols
}

// EntityOption configures an entity at registration.
type EntityOption func(*Entity)

func WithTable(table string) EntityOption {
	return func(e *Entity) { e.Table = table }
}

func WithPrimaryKey(column string) EntityOption {
	return func(e *Entity) { e.PrimaryKey = column }
}

// WithRelations declares the entity's relations.
func WithRelations(relations ...*Relation) EntityOption {
	return func(e *Entity) {
		for _, r := range relations {
			e.relations[r.Name] = r
		}
	}
}

// WithGenerator fills a zero primary key from the named generator on insert.
func WithGenerator(name string) EntityOption {
	return func(e *Entity) { e.generator = name }
}

// TableNamer lets a model choose its own table name.
type TableNamer interface {
	TableName() string
}

// Relator lets a model declare its relations itself.
type Relator interface {
	Relations() []*Relation
}
