package schema

import "fmt"

// RelationKind is the cardinality of a relation.
type RelationKind int

const (
	HasManyKind RelationKind = iota
	HasOneKind
	BelongsToKind
)

func (k RelationKind) String() string {
	switch k {
	case HasManyKind:
		return "has_many"
	case HasOneKind:
		return "has_one"
	case BelongsToKind:
		return "belongs_to"
	default:
		return "unknown"
	}
}

// Relation describes how one entity links to another.
//
// For HasMany and HasOne, ForeignKey is the column on the related table and
// LocalKey the column on the owner. For BelongsTo, ForeignKey is the column
// on the owner and LocalKey the column on the related table.
type Relation struct {
	Name       string
	Kind       RelationKind
	ForeignKey string
	LocalKey   string

	// related is a model value or a table/entity name.
	related  any
	registry *Registry
}

// HasMany declares a one-to-many relation. localKey defaults to "id".
func HasMany(name string, related any, foreignKey string, localKey ...string) *Relation {
	return newRelation(HasManyKind, name, related, foreignKey, localKey)
}

// HasOne declares a one-to-one relation where the related table holds the key.
func HasOne(name string, related any, foreignKey string, localKey ...string) *Relation {
	return newRelation(HasOneKind, name, related, foreignKey, localKey)
}

// BelongsTo declares the inverse side: the owner holds foreignKey, which
// points at ownerKey (default "id") on the related table.
func BelongsTo(name string, related any, foreignKey string, ownerKey ...string) *Relation {
	return newRelation(BelongsToKind, name, related, foreignKey, ownerKey)
}

func newRelation(kind RelationKind, name string, related any, foreignKey string, key []string) *Relation {
	r := &Relation{
		Name:       name,
		Kind:       kind,
		ForeignKey: foreignKey,
		LocalKey:   "id",
		related:    related,
	}
	if len(key) > 0 && key[0] != "" {
		r.LocalKey = key[0]
	}
	return r
}

// ParentKey is the column read from owner records to collect lookup keys.
func (r *Relation) ParentKey() string {
	if r.Kind == BelongsToKind {
		return r.ForeignKey
	}
	return r.LocalKey
}

// MatchColumn is the column on the related table matched against the keys.
func (r *Relation) MatchColumn() string {
	if r.Kind == BelongsToKind {
		return r.LocalKey
	}
	return r.ForeignKey
}

// Many reports whether the relation attaches a list.
func (r *Relation) Many() bool {
	return r.Kind == HasManyKind
}

// Related resolves the target entity through the registry the owner was
// registered with. Unknown table names resolve to table-only entities, so
// declarations may reference each other in any order.
func (r *Relation) Related() (*Entity, error) {
	reg := r.registry
	if reg == nil {
		reg = Default()
	}

	switch target := r.related.(type) {
	case string:
		if e, ok := reg.Lookup(target); ok {
			return e, nil
		}
		return reg.Define(target), nil
	case *Entity:
		return target, nil
	case nil:
		return nil, fmt.Errorf("schema: relation %s has no target", r.Name)
	default:
		if e, ok := reg.EntityOf(target); ok {
			return e, nil
		}
		return reg.Register(target)
	}
}

// bind returns a copy of r attached to reg with defaults derived from owner.
func (r *Relation) bind(reg *Registry, owner *Entity) *Relation {
	c := *r
	c.registry = reg
	if c.ForeignKey == "" {
		switch c.Kind {
		case BelongsToKind:
			c.ForeignKey = singularize(c.Name) + "_id"
		default:
			c.ForeignKey = singularize(owner.Table) + "_id"
		}
	}
	return &c
}
