package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func ids(list []Comment) []uuid.UUID {
	out := make([]uuid.UUID, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func mk(minute, score int) Comment {
	return Comment{
		ID:          uuid.New(),
		CreatedTime: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Score:       IntPtr(score),
	}
}

func TestSortPolicy_Compare(t *testing.T) {
	t.Parallel()

	old, mid, young := mk(1, 5), mk(2, -1), mk(3, 5)
	in := []Comment{mid, young, old}

	require.Equal(t, ids([]Comment{old, mid, young}), ids(SortSiblings(in, SortTimeAsc)))
	require.Equal(t, ids([]Comment{young, mid, old}), ids(SortSiblings(in, SortTimeDesc)))
	// Равный счёт - новее выше.
	require.Equal(t, ids([]Comment{young, old, mid}), ids(SortSiblings(in, SortScoreDesc)))
	require.Equal(t, ids([]Comment{mid, young, old}), ids(SortSiblings(in, SortScoreAsc)))
}

func TestSortSiblings_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []Comment{mk(3, 0), mk(1, 0), mk(2, 0)}
	orig := ids(in)

	_ = SortSiblings(in, SortTimeAsc)
	require.Equal(t, orig, ids(in))
}

// TestSortSiblings_StickyBias - единственный закреплённый комментарий первый при любой политике,
// удалённый закреплённый приоритета не получает.
func TestSortSiblings_StickyBias(t *testing.T) {
	t.Parallel()

	sticky := mk(5, -10)
	sticky.IsSticky = true
	deletedSticky := mk(0, 100)
	deletedSticky.IsSticky = true
	deletedSticky.IsDeleted = true

	in := []Comment{mk(1, 3), deletedSticky, mk(2, 7), sticky, mk(3, 0)}

	for _, p := range SortPolicies {
		out := SortSiblings(in, p)
		require.Equal(t, sticky.ID, out[0].ID, "policy %s", p)
		require.Len(t, out, len(in))
	}
}

// TestSortSiblings_StickyTiesUseComparator - несколько закреплённых упорядочены компаратором.
func TestSortSiblings_StickyTiesUseComparator(t *testing.T) {
	t.Parallel()

	a, b := mk(1, 0), mk(2, 0)
	a.IsSticky, b.IsSticky = true, true
	plain := mk(0, 0)

	out := SortSiblings([]Comment{plain, b, a}, SortTimeAsc)
	require.Equal(t, ids([]Comment{a, b, plain}), ids(out))

	out = SortSiblings([]Comment{plain, a, b}, SortTimeDesc)
	require.Equal(t, ids([]Comment{b, a, plain}), ids(out))
}

// TestSortSiblings_Stable - правка одного соседа не меняет относительный порядок остальных.
func TestSortSiblings_Stable(t *testing.T) {
	t.Parallel()

	// Одинаковое время и счёт - порядок задаёт только вход.
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := make([]Comment, 6)
	for i := range in {
		in[i] = Comment{ID: uuid.New(), CreatedTime: same, Score: IntPtr(1)}
	}

	for _, p := range SortPolicies {
		first := SortSiblings(in, p)

		patched := append([]Comment(nil), in...)
		patched[2].Markdown = "edited"
		patched[2].HTML = "<p>edited</p>"
		second := SortSiblings(patched, p)

		require.Equal(t, ids(first), ids(second), "policy %s", p)
	}
}

func TestParseSortPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseSortPolicy("sd")
	require.NoError(t, err)
	require.Equal(t, SortScoreDesc, p)
	require.Equal(t, "Most upvoted", p.Label())

	_, err = ParseSortPolicy("zz")
	require.Error(t, err)
}

func TestComment_Status(t *testing.T) {
	t.Parallel()

	cases := []struct {
		c    Comment
		want ModerationStatus
	}{
		{Comment{IsApproved: true}, StatusApproved},
		{Comment{IsPending: true}, StatusPending},
		{Comment{}, StatusRejected},
		{Comment{IsDeleted: true, IsPending: true}, StatusDeleted},
		{Comment{IsDeleted: true, IsApproved: true}, StatusDeleted},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.c.Status())
	}
}

func TestPrincipal_Roles(t *testing.T) {
	t.Parallel()

	var anon *Principal
	require.False(t, anon.CanModerate())
	require.Equal(t, uuid.Nil, anon.UserID())

	require.True(t, (&Principal{IsSuperuser: true}).CanModerate())
	require.True(t, (&Principal{DomainUser: &DomainUser{IsOwner: true}}).CanModerate())
	require.True(t, (&Principal{DomainUser: &DomainUser{IsModerator: true}}).CanModerate())
	require.False(t, (&Principal{DomainUser: &DomainUser{IsCommenter: true}}).CanModerate())
	require.False(t, (&Principal{}).CanModerate())

	require.True(t, (&Principal{DomainUser: &DomainUser{IsReadonly: true}}).IsReadonlyOn())
	require.False(t, (&Principal{IsSuperuser: true, DomainUser: &DomainUser{IsReadonly: true}}).IsReadonlyOn())
}

func TestComment_IsAuthoredBy(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	c := Comment{UserCreated: UUIDPtr(uid)}
	require.True(t, c.IsAuthoredBy(uid))
	require.False(t, c.IsAuthoredBy(uuid.New()))
	require.False(t, Comment{}.IsAuthoredBy(uid))
	require.False(t, Comment{UserCreated: UUIDPtr(uuid.Nil)}.IsAuthoredBy(uuid.Nil))
}
