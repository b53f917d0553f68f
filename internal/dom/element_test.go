package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElement_Classes(t *testing.T) {
	t.Parallel()

	e := Div("a", "b").AddClass("b", "c").RemoveClass("a")
	require.Equal(t, []string{"b", "c"}, e.Classes())
	require.True(t, e.HasClass("c"))

	e.SetClass("c", false).SetClass("d", true)
	require.Equal(t, []string{"b", "d"}, e.Classes())

	e.RemoveClass("b", "d")
	require.False(t, e.HasAttr("class"))
}

func TestElement_Attrs(t *testing.T) {
	t.Parallel()

	e := Button("Reply").ToggleAttr("disabled", true).SetID("x")
	v, ok := e.Attr("title")
	require.True(t, ok)
	require.Equal(t, "Reply", v)
	require.Equal(t, "x", e.ID())
	require.True(t, e.HasAttr("disabled"))

	e.ToggleAttr("disabled", false).SetAttr("title", "Edit")
	require.False(t, e.HasAttr("disabled"))
	v, _ = e.Attr("title")
	require.Equal(t, "Edit", v)
}

func TestElement_AppendInsertBefore(t *testing.T) {
	t.Parallel()

	root := Div()
	a, b, c := Div().SetID("a"), Div().SetID("b"), Div().SetID("c")
	root.Append(a, c)
	require.NoError(t, root.InsertBefore(b, c))

	ids := func() []string {
		var out []string
		for _, ch := range root.Children() {
			out = append(out, ch.ID())
		}
		return out
	}
	require.Equal(t, []string{"a", "b", "c"}, ids())
	require.Equal(t, `<div><div id="a"></div><div id="b"></div><div id="c"></div></div>`, root.String())

	// Перенос существующего ребёнка.
	require.NoError(t, root.InsertBefore(c, a))
	require.Equal(t, []string{"c", "a", "b"}, ids())
	require.Same(t, root, c.Parent())

	other := Div()
	other.Append(b)
	require.Equal(t, []string{"c", "a"}, ids())
	require.Same(t, other, b.Parent())

	require.ErrorIs(t, root.InsertBefore(Div(), b), ErrDetached)
}

func TestElement_DetachKeepsHandle(t *testing.T) {
	t.Parallel()

	old := Div("old")
	editor := Div("editor")
	text := New("textarea").SetText("draft")
	editor.Append(text)
	old.Append(editor)

	editor.Detach()
	require.True(t, editor.Valid())
	require.Nil(t, editor.Parent())
	require.Empty(t, old.Children())

	// Очистка бывшего родителя отсоединённый элемент не задевает.
	old.Clear()
	require.True(t, editor.Valid())

	next := Div("next")
	next.Append(editor)
	require.Same(t, next, editor.Parent())
	require.Equal(t, "draft", text.Text())
	require.Len(t, next.FindByClass("editor"), 1)
	require.Contains(t, next.String(), "draft")
}

func TestElement_RemoveInvalidates(t *testing.T) {
	t.Parallel()

	root := Div()
	child := Div("child")
	grand := Button("x")
	child.Append(grand)
	root.Append(child)

	clicks := 0
	grand.On("click", func(context.Context) { clicks++ })
	require.NoError(t, grand.Click(context.Background()))
	require.Equal(t, 1, clicks)

	child.Remove()
	require.False(t, child.Valid())
	require.False(t, grand.Valid())
	require.Empty(t, root.Children())
	require.Equal(t, "<div></div>", root.String())

	// Мутаторы - no-op, операции с результатом - ErrDetached.
	require.NotPanics(t, func() {
		child.AddClass("z").SetAttr("a", "b").Append(Div()).SetText("t")
		child.Remove()
	})
	require.ErrorIs(t, grand.Click(context.Background()), ErrDetached)
	require.Equal(t, 1, clicks)

	_, err := child.Node()
	require.ErrorIs(t, err, ErrDetached)
	require.ErrorIs(t, child.Render(&strings.Builder{}), ErrDetached)
	require.Empty(t, child.String())
	require.Empty(t, child.Tag())
}

func TestElement_DispatchDisabled(t *testing.T) {
	t.Parallel()

	called := false
	b := Button("Vote").On("click", func(context.Context) { called = true }).ToggleAttr("disabled", true)

	require.ErrorIs(t, b.Click(context.Background()), ErrDisabled)
	require.False(t, called)
}

func TestElement_HandlerRemovesSelf(t *testing.T) {
	t.Parallel()

	root := Div()
	b := Button("once")
	root.Append(b)

	n := 0
	b.On("click", func(context.Context) { n++; b.Remove() })
	b.On("click", func(context.Context) { n++ })

	require.NoError(t, b.Click(context.Background()))
	require.Equal(t, 2, n)
	require.False(t, b.Valid())
}

func TestElement_TextAndHTML(t *testing.T) {
	t.Parallel()

	body := Div("body")
	require.NoError(t, body.SetHTML("<p>Hello <b>world</b></p>"))
	require.Equal(t, "Hello world", body.Text())
	require.Equal(t, `<div class="body"><p>Hello <b>world</b></p></div>`, body.String())

	body.SetText("<script>")
	require.Equal(t, `<div class="body">&lt;script&gt;</div>`, body.String())
}

func TestElement_ClearInvalidatesChildren(t *testing.T) {
	t.Parallel()

	root := Div()
	c := Div()
	root.Append(c).AppendText("tail")
	root.Clear()

	require.False(t, c.Valid())
	require.Empty(t, root.Text())
}

func TestElement_Find(t *testing.T) {
	t.Parallel()

	root := Div()
	inner := Div("card").SetID("one")
	inner.Append(Div("card").SetID("two"))
	root.Append(inner, Div("other"))

	el, ok := root.FindByID("two")
	require.True(t, ok)
	require.Equal(t, "two", el.ID())

	_, ok = root.FindByID("missing")
	require.False(t, ok)

	require.Len(t, root.FindByClass("card"), 2)
}

func TestElement_Visible(t *testing.T) {
	t.Parallel()

	root := Div()
	box := Div()
	leaf := Div()
	box.Append(leaf)
	root.Append(box)
	require.True(t, leaf.Visible())

	box.ToggleAttr("hidden", true)
	require.False(t, leaf.Visible())

	box.ToggleAttr("hidden", false)
	require.True(t, leaf.Visible())

	leaf.Remove()
	require.False(t, leaf.Visible())
}
