package models

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// randomForest строит n комментариев, каждый следующий с вероятностью 1/2 - ответ
// на случайный из уже созданных.
func randomForest(r *rand.Rand, n int) []Comment {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]Comment, 0, n)
	for i := 0; i < n; i++ {
		c := Comment{
			ID:          uuid.New(),
			CreatedTime: base.Add(time.Duration(r.Intn(1000)) * time.Minute),
			Score:       IntPtr(r.Intn(7) - 3),
		}
		if i > 0 && r.Intn(2) == 0 {
			c.ParentID = UUIDPtr(out[r.Intn(len(out))].ID)
		}
		out = append(out, c)
	}

	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// TestGroupByParent_Completeness - сумма длин списков равна длине входа,
// каждый id встречается ровно один раз и лежит под своим ParentKey.
func TestGroupByParent_Completeness(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 2, 17, 250} {
		in := randomForest(r, n)
		g := GroupByParent(in)

		require.Equal(t, n, g.Len())

		seen := make(map[uuid.UUID]int, n)
		for key, list := range g {
			for _, c := range list {
				seen[c.ID]++
				require.Equal(t, key, c.ParentKey())
			}
		}

		require.Len(t, seen, n)
		for id, cnt := range seen {
			require.Equal(t, 1, cnt, "comment %s duplicated", id)
		}
	}
}

func TestGroupByParent_Empty(t *testing.T) {
	t.Parallel()

	g := GroupByParent(nil)
	require.NotNil(t, g)
	require.Empty(t, g)
	require.Nil(t, g.Children(RootKey))
}

func TestGroupByParent_RootSentinel(t *testing.T) {
	t.Parallel()

	root := Comment{ID: uuid.New()}
	child := Comment{ID: uuid.New(), ParentID: UUIDPtr(root.ID)}

	g := GroupByParent([]Comment{child, root})
	require.Equal(t, []Comment{root}, g[RootKey])
	require.Equal(t, []Comment{child}, g[root.ID])
}

func TestAppend_CreatesList(t *testing.T) {
	t.Parallel()

	g := CommentsGroupedByID{}
	parent := uuid.New()
	c := Comment{ID: uuid.New(), ParentID: UUIDPtr(parent)}

	g.Append(c)
	require.Equal(t, []Comment{c}, g[parent])

	found, ok := g.Find(c.ID)
	require.True(t, ok)
	require.Equal(t, c, found)

	_, ok = g.Find(uuid.New())
	require.False(t, ok)
}

// TestPatch_PreservesSiblings - патч меняет только свой слот; длина и идентичность
// соседей сохраняются.
func TestPatch_PreservesSiblings(t *testing.T) {
	t.Parallel()

	list := []Comment{
		{ID: uuid.New(), Markdown: "a"},
		{ID: uuid.New(), Markdown: "b"},
		{ID: uuid.New(), Markdown: "c"},
	}
	g := GroupByParent(list)
	before := append([]Comment(nil), g[RootKey]...)

	updated, ok := g.Patch(RootKey, list[1].ID, func(c *Comment) {
		c.Markdown = "B"
		c.IsDeleted = true
		c.ParentID = UUIDPtr(uuid.New()) // попытка сменить родителя игнорируется
	})
	require.True(t, ok)
	require.Equal(t, "B", updated.Markdown)
	require.Nil(t, updated.ParentID)

	after := g[RootKey]
	require.Len(t, after, len(before))
	require.Equal(t, before[0], after[0])
	require.Equal(t, before[2], after[2])
	require.Equal(t, before[1].ID, after[1].ID)
	require.True(t, after[1].IsDeleted)
}

func TestPatch_MissingIsDropped(t *testing.T) {
	t.Parallel()

	c := Comment{ID: uuid.New()}
	g := GroupByParent([]Comment{c})

	called := false
	_, ok := g.Patch(RootKey, uuid.New(), func(*Comment) { called = true })
	require.False(t, ok)
	require.False(t, called)

	// Неверный родитель тоже не находит комментарий.
	_, ok = g.Patch(uuid.New(), c.ID, func(*Comment) { called = true })
	require.False(t, ok)
	require.False(t, called)
	require.Equal(t, []Comment{c}, g[RootKey])
}
