package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/schema"
)

func TestPlan(t *testing.T) {
	desc := func(q *query.Builder) *query.Builder { return q.OrderByDesc("id") }

	steps := plan([]Spec{
		{Path: "posts.comments"},
		{Path: "profile"},
		{Path: "posts", Constrain: desc},
		{Path: "posts.tags", Constrain: desc},
		{Path: ""},
	})

	require.Len(t, steps, 2)
	assert.Equal(t, "posts", steps[0].name)
	assert.NotNil(t, steps[0].constrain)
	require.Len(t, steps[0].children, 2)
	assert.Equal(t, "comments", steps[0].children[0].Path)
	assert.Nil(t, steps[0].children[0].Constrain)
	assert.Equal(t, "tags", steps[0].children[1].Path)
	assert.NotNil(t, steps[0].children[1].Constrain)

	assert.Equal(t, "profile", steps[1].name)
	assert.Empty(t, steps[1].children)
}

type label string

func (l label) String() string { return "label:" + string(l) }

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"Nil", nil, "", false},
		{"String", "7", "7", true},
		{"Bytes", []byte("7"), "7", true},
		{"Int64", int64(7), "7", true},
		{"Int", 7, "7", true},
		{"Int32", int32(7), "7", true},
		{"Uint64", uint64(7), "7", true},
		{"Stringer", label("x"), "label:x", true},
		{"Float", 7.5, "7.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyOf(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectKeys(t *testing.T) {
	records := []*record.Record{
		record.FromMap(map[string]any{"user_id": int64(1)}),
		record.FromMap(map[string]any{"user_id": int64(2)}),
		record.FromMap(map[string]any{"user_id": int64(1)}),
		record.FromMap(map[string]any{"user_id": nil}),
		record.FromMap(map[string]any{"title": "no key"}),
		record.FromMap(map[string]any{"user_id": []byte("3")}),
	}

	assert.Equal(t, []any{int64(1), int64(2), "3"}, collectKeys(records, "user_id"))
	assert.Empty(t, collectKeys(records, "missing"))
}

func TestAttach(t *testing.T) {
	hasMany := schema.HasMany("posts", "posts", "user_id")
	hasOne := schema.HasOne("profile", "profiles", "user_id")

	many := record.New(0)
	attach(many, hasMany, nil)
	posts, ok := many.Value("posts").([]*record.Record)
	require.True(t, ok)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	first := record.FromMap(map[string]any{"id": int64(1)})
	one := record.New(0)
	attach(one, hasOne, []*record.Record{first, record.New(0)})
	assert.Same(t, first, one.Value("profile"))

	none := record.New(0)
	attach(none, hasOne, nil)
	assert.True(t, none.Has("profile"))
	profile, ok := none.Value("profile").(*record.Record)
	require.True(t, ok)
	assert.Nil(t, profile)
}
