// Package relation eager loads has-many, has-one and belongs-to relations
// onto already fetched records with one query per relation.
package relation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/schema"
)

// Source starts queries against a table. engine.Engine implements it.
type Source interface {
	Table(name string) *query.Builder
}

// Constraint narrows the related query, for example with an ORDER BY.
type Constraint func(*query.Builder) *query.Builder

// Spec names a relation path such as "posts" or "posts.comments". A
// Constraint applies to the last segment of the path.
type Spec struct {
	Path      string
	Constrain Constraint
}

// With pairs a path with a constraint.
func With(path string, fn Constraint) Spec {
	return Spec{Path: path, Constrain: fn}
}

type Loader struct {
	logger zerolog.Logger
}

type Option func(*Loader)

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load attaches each named relation of owner to every parent record under
// the relation's name. Names the owner does not declare are skipped.
func (l *Loader) Load(ctx context.Context, db Source, owner *schema.Entity, parents []*record.Record, names ...string) error {
	specs := make([]Spec, len(names))
	for i, name := range names {
		specs[i] = Spec{Path: name}
	}
	return l.LoadWith(ctx, db, owner, parents, specs...)
}

// LoadWith is Load with per-relation constraints.
func (l *Loader) LoadWith(ctx context.Context, db Source, owner *schema.Entity, parents []*record.Record, specs ...Spec) error {
	if len(parents) == 0 {
		return nil
	}
	for _, step := range plan(specs) {
		if err := l.loadOne(ctx, db, owner, parents, step); err != nil {
			return err
		}
	}
	return nil
}

// step is one relation at one level plus what to load beneath it.
type step struct {
	name      string
	constrain Constraint
	children  []Spec
}

// plan groups specs by their first path segment, keeping first-seen order.
func plan(specs []Spec) []*step {
	var steps []*step
	byName := map[string]*step{}
	for _, spec := range specs {
		head, rest, nested := strings.Cut(spec.Path, ".")
		if head == "" {
			continue
		}
		s, ok := byName[head]
		if !ok {
			s = &step{name: head}
			byName[head] = s
			steps = append(steps, s)
		}
		if nested {
			s.children = append(s.children, Spec{Path: rest, Constrain: spec.Constrain})
		} else if spec.Constrain != nil {
			s.constrain = spec.Constrain
		}
	}
	return steps
}

func (l *Loader) loadOne(ctx context.Context, db Source, owner *schema.Entity, parents []*record.Record, s *step) error {
	rel, ok := owner.Relation(s.name)
	if !ok {
		l.logger.Debug().Str("entity", owner.Name).Str("relation", s.name).Msg("relation not declared, skipping")
		return nil
	}
	related, err := rel.Related()
	if err != nil {
		return fmt.Errorf("relation: resolve %s.%s: %w", owner.Name, s.name, err)
	}

	start := time.Now()
	parentKey, matchColumn := rel.ParentKey(), rel.MatchColumn()

	keys := collectKeys(parents, parentKey)
	if len(keys) == 0 {
		for _, p := range parents {
			attach(p, rel, nil)
		}
		return nil
	}

	qb := db.Table(related.Table).WhereIn(matchColumn, keys)
	if s.constrain != nil {
		qb = s.constrain(qb)
	}
	rows, err := qb.Get(ctx)
	if err != nil {
		return fmt.Errorf("relation: load %s.%s: %w", owner.Name, s.name, err)
	}

	groups := make(map[string][]*record.Record, len(keys))
	for _, row := range rows {
		k, ok := keyOf(row.Value(matchColumn))
		if !ok {
			continue
		}
		groups[k] = append(groups[k], row)
	}

	for _, p := range parents {
		k, ok := keyOf(p.Value(parentKey))
		if !ok {
			attach(p, rel, nil)
			continue
		}
		attach(p, rel, groups[k])
	}

	l.logger.Debug().
		Str("entity", owner.Name).
		Str("relation", s.name).
		Str("kind", rel.Kind.String()).
		Int("parents", len(parents)).
		Int("keys", len(keys)).
		Int("rows", len(rows)).
		Dur("took", time.Since(start)).
		Msg("eager loaded")

	if len(s.children) > 0 && len(rows) > 0 {
		return l.LoadWith(ctx, db, related, rows, s.children...)
	}
	return nil
}

// attach sets the relation on p: a list for has-many, otherwise the first
// row or nil.
func attach(p *record.Record, rel *schema.Relation, group []*record.Record) {
	if rel.Many() {
		if group == nil {
			group = []*record.Record{}
		}
		p.Set(rel.Name, group)
		return
	}
	if len(group) == 0 {
		p.Set(rel.Name, (*record.Record)(nil))
		return
	}
	p.Set(rel.Name, group[0])
}

// collectKeys returns the distinct non-null values of column across
// records, in first-seen order.
func collectKeys(records []*record.Record, column string) []any {
	seen := make(map[string]struct{}, len(records))
	keys := make([]any, 0, len(records))
	for _, r := range records {
		v := r.Value(column)
		k, ok := keyOf(v)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if b, isBytes := v.([]byte); isBytes {
			v = string(b)
		}
		keys = append(keys, v)
	}
	return keys
}

// keyOf normalizes a key so that drivers returning int64 for one side and
// int or text for the other still match.
func keyOf(v any) (string, bool) {
	switch k := v.(type) {
	case nil:
		return "", false
	case string:
		return k, true
	case []byte:
		return string(k), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case int:
		return strconv.Itoa(k), true
	case int32:
		return strconv.FormatInt(int64(k), 10), true
	case uint64:
		return strconv.FormatUint(k, 10), true
	case fmt.Stringer:
		return k.String(), true
	default:
		return fmt.Sprint(k), true
	}
}
