package relation_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/querykit/database"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/engine"
	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/relation"
	"github.com/Konsultn-Engineering/querykit/schema"
)

type fixtures struct {
	Schema []string `yaml:"schema"`
	Tables []struct {
		Name string           `yaml:"name"`
		Rows []map[string]any `yaml:"rows"`
	} `yaml:"tables"`
}

// countingSource records the tables each eager load queries.
type countingSource struct {
	engine *engine.Engine
	tables []string
}

func (s *countingSource) Table(name string) *query.Builder {
	s.tables = append(s.tables, name)
	return s.engine.Table(name)
}

type LoaderSuite struct {
	suite.Suite

	ctx      context.Context
	engine   *engine.Engine
	registry *schema.Registry
	source   *countingSource
	loader   *relation.Loader
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)

	s.registry = schema.NewRegistry()
	s.registry.Define("users", schema.WithRelations(
		schema.HasMany("posts", "posts", "user_id"),
		schema.HasOne("profile", "profiles", "user_id"),
	))
	s.registry.Define("posts", schema.WithRelations(
		schema.BelongsTo("author", "users", "user_id"),
		schema.HasMany("comments", "comments", "post_id"),
	))
	s.registry.Define("comments")
	s.registry.Define("profiles")

	s.engine = engine.New(database.NewSqlDatabase(db), dialect.NewSQLiteDialect(), engine.WithRegistry(s.registry))
	s.seed()

	s.source = &countingSource{engine: s.engine}
	s.loader = relation.NewLoader()
}

func (s *LoaderSuite) TearDownTest() {
	s.Require().NoError(s.engine.Close())
}

func (s *LoaderSuite) seed() {
	raw, err := os.ReadFile("testdata/fixtures.yaml")
	s.Require().NoError(err)

	var fx fixtures
	s.Require().NoError(yaml.Unmarshal(raw, &fx))

	for _, ddl := range fx.Schema {
		_, err := s.engine.Conn().Exec(s.ctx, ddl)
		s.Require().NoError(err)
	}
	for _, table := range fx.Tables {
		for _, row := range table.Rows {
			_, err := s.engine.Table(table.Name).Insert(row).Exec(s.ctx)
			s.Require().NoError(err)
		}
	}
}

func (s *LoaderSuite) fetch(table string) []*record.Record {
	rows, err := s.engine.Table(table).OrderBy("id").Get(s.ctx)
	s.Require().NoError(err)
	return rows
}

func (s *LoaderSuite) entity(name string) *schema.Entity {
	e, ok := s.registry.Lookup(name)
	s.Require().True(ok)
	return e
}

func ids(rows []*record.Record) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i], _ = r.Value("id").(int64)
	}
	return out
}

func related(r *record.Record, name string) []*record.Record {
	v, _ := r.Value(name).([]*record.Record)
	return v
}

func (s *LoaderSuite) TestHasMany() {
	users := s.fetch("users")

	err := s.loader.Load(s.ctx, s.source, s.entity("users"), users, "posts")
	s.Require().NoError(err)

	s.Equal([]string{"posts"}, s.source.tables)
	s.Equal([]int64{1, 2}, ids(related(users[0], "posts")))
	s.Equal([]int64{3}, ids(related(users[1], "posts")))

	empty, ok := users[2].Value("posts").([]*record.Record)
	s.Require().True(ok)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *LoaderSuite) TestHasOne() {
	users := s.fetch("users")

	err := s.loader.Load(s.ctx, s.source, s.entity("users"), users, "profile")
	s.Require().NoError(err)

	profile, ok := users[0].Value("profile").(*record.Record)
	s.Require().True(ok)
	s.Equal("Writes about databases", profile.Value("bio"))

	s.True(users[1].Has("profile"))
	s.Nil(users[1].Value("profile"))
}

func (s *LoaderSuite) TestBelongsTo() {
	posts := s.fetch("posts")

	err := s.loader.Load(s.ctx, s.source, s.entity("posts"), posts, "author")
	s.Require().NoError(err)

	alice, ok := posts[0].Value("author").(*record.Record)
	s.Require().True(ok)
	s.Equal("Alice", alice.Value("name"))
	s.Same(alice, posts[1].Value("author"))

	bob, ok := posts[2].Value("author").(*record.Record)
	s.Require().True(ok)
	s.Equal("Bob", bob.Value("name"))

	// The draft has no user_id.
	s.True(posts[3].Has("author"))
	s.Nil(posts[3].Value("author"))
}

func (s *LoaderSuite) TestEmptyParents() {
	err := s.loader.Load(s.ctx, s.source, s.entity("users"), nil, "posts")
	s.Require().NoError(err)
	s.Empty(s.source.tables)
}

func (s *LoaderSuite) TestUnknownRelationSkipped() {
	users := s.fetch("users")

	err := s.loader.Load(s.ctx, s.source, s.entity("users"), users, "followers", "posts")
	s.Require().NoError(err)

	s.Equal([]string{"posts"}, s.source.tables)
	for _, u := range users {
		s.False(u.Has("followers"))
		s.True(u.Has("posts"))
	}
}

func (s *LoaderSuite) TestNested() {
	users := s.fetch("users")

	err := s.loader.Load(s.ctx, s.source, s.entity("users"), users, "posts.comments")
	s.Require().NoError(err)

	s.Equal([]string{"posts", "comments"}, s.source.tables)

	alicePosts := related(users[0], "posts")
	s.Require().Len(alicePosts, 2)
	s.Len(related(alicePosts[0], "comments"), 2)
	s.Empty(related(alicePosts[1], "comments"))

	bobPosts := related(users[1], "posts")
	s.Require().Len(bobPosts, 1)
	s.Len(related(bobPosts[0], "comments"), 1)
}

func (s *LoaderSuite) TestConstraint() {
	users := s.fetch("users")

	err := s.loader.LoadWith(s.ctx, s.source, s.entity("users"), users,
		relation.With("posts", func(q *query.Builder) *query.Builder {
			return q.OrderByDesc("id")
		}),
	)
	s.Require().NoError(err)
	s.Equal([]int64{2, 1}, ids(related(users[0], "posts")))
}

func (s *LoaderSuite) TestReloadReplaces() {
	users := s.fetch("users")
	owner := s.entity("users")

	s.Require().NoError(s.loader.Load(s.ctx, s.source, owner, users, "posts"))
	s.Require().NoError(s.loader.Load(s.ctx, s.source, owner, users, "posts"))

	s.Len(related(users[0], "posts"), 2)
	s.Equal([]string{"id", "name", "posts"}, users[0].Keys())
}

func (s *LoaderSuite) TestEngineLoad() {
	users := s.fetch("users")

	err := s.engine.Load(s.ctx, "users", users, "posts", "profile")
	s.Require().NoError(err)
	s.Len(related(users[0], "posts"), 2)
	s.NotNil(users[0].Value("profile"))
}

func TestLoaderRequiresDeclaredTarget(t *testing.T) {
	reg := schema.NewRegistry()
	owner := reg.Define("users", schema.WithRelations(schema.HasMany("posts", nil, "user_id")))

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	e := engine.New(database.NewSqlDatabase(db), dialect.NewSQLiteDialect(), engine.WithRegistry(reg))
	defer e.Close()

	parents := []*record.Record{record.FromMap(map[string]any{"id": int64(1)})}
	err = relation.NewLoader().Load(context.Background(), e, owner, parents, "posts")
	assert.Error(t, err)
}
