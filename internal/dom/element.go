// Package dom - удерживаемое дерево элементов интерфейса поверх golang.org/x/net/html.
//
// Element владеет единственной ссылкой на свой узел. Remove отсоединяет узел и
// инвалидирует хэндл вместе с потомками: мутаторы на отсоединённом элементе ничего
// не делают, а операции с результатом (Node, Render, Dispatch) возвращают ErrDetached.
package dom

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrDetached - элемент удалён из дерева, хэндл больше недействителен.
	ErrDetached = errors.New("element detached")
	// ErrDisabled - событие отправлено выключенному элементу.
	ErrDisabled = errors.New("element disabled")
)

// Handler - обработчик события элемента.
type Handler func(ctx context.Context)

// Element - хэндл узла интерфейса.
type Element struct {
	node     *html.Node
	parent   *Element
	children []*Element
	handlers map[string][]Handler
}

// New создаёт отсоединённый элемент с тегом и классами.
func New(tag string, classes ...string) *Element {
	e := &Element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}

	return e.AddClass(classes...)
}

// Div - сокращение для New("div", ...).
func Div(classes ...string) *Element { return New("div", classes...) }

// Button создаёт кнопку с подписью.
func Button(title string, classes ...string) *Element {
	return New("button", classes...).SetAttr("type", "button").SetAttr("title", title)
}

// Valid сообщает, что хэндл ещё действителен.
func (e *Element) Valid() bool { return e != nil && e.node != nil }

// Node возвращает нижележащий узел.
func (e *Element) Node() (*html.Node, error) {
	if !e.Valid() {
		return nil, ErrDetached
	}

	return e.node, nil
}

// Tag - имя тега; пустое для отсоединённого элемента.
func (e *Element) Tag() string {
	if !e.Valid() {
		return ""
	}

	return e.node.Data
}

// Parent - отслеживаемый родитель или nil.
func (e *Element) Parent() *Element {
	if !e.Valid() {
		return nil
	}

	return e.parent
}

// Children - копия списка отслеживаемых детей.
func (e *Element) Children() []*Element {
	if !e.Valid() {
		return nil
	}

	return slices.Clone(e.children)
}

// Attr возвращает значение атрибута; ok == false, если атрибута нет или хэндл недействителен.
func (e *Element) Attr(name string) (string, bool) {
	if !e.Valid() {
		return "", false
	}

	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}

	return "", false
}

// HasAttr - атрибут присутствует.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr задаёт или заменяет атрибут.
func (e *Element) SetAttr(name, value string) *Element {
	if !e.Valid() {
		return e
	}

	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return e
		}
	}

	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
	return e
}

// RemoveAttr удаляет атрибут, если он есть.
func (e *Element) RemoveAttr(name string) *Element {
	if !e.Valid() {
		return e
	}

	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
	return e
}

// ToggleAttr выставляет булев атрибут (disabled, hidden) по флагу.
func (e *Element) ToggleAttr(name string, on bool) *Element {
	if on {
		return e.SetAttr(name, "")
	}

	return e.RemoveAttr(name)
}

// ID - значение атрибута id.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// SetID задаёт атрибут id.
func (e *Element) SetID(id string) *Element { return e.SetAttr("id", id) }

// Classes - классы элемента в порядке добавления.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass - класс присутствует.
func (e *Element) HasClass(cls string) bool {
	return slices.Contains(e.Classes(), cls)
}

// AddClass добавляет классы без дублей.
func (e *Element) AddClass(classes ...string) *Element {
	if !e.Valid() || len(classes) == 0 {
		return e
	}

	cur := e.Classes()
	for _, c := range classes {
		if c != "" && !slices.Contains(cur, c) {
			cur = append(cur, c)
		}
	}

	return e.setClasses(cur)
}

// RemoveClass удаляет классы.
func (e *Element) RemoveClass(classes ...string) *Element {
	if !e.Valid() {
		return e
	}

	cur := slices.DeleteFunc(e.Classes(), func(c string) bool {
		return slices.Contains(classes, c)
	})

	return e.setClasses(cur)
}

// SetClass добавляет или снимает класс по флагу.
func (e *Element) SetClass(cls string, on bool) *Element {
	if on {
		return e.AddClass(cls)
	}

	return e.RemoveClass(cls)
}

func (e *Element) setClasses(cls []string) *Element {
	if len(cls) == 0 {
		return e.RemoveAttr("class")
	}

	return e.SetAttr("class", strings.Join(cls, " "))
}

// Append добавляет детей в конец. Уже вставленный где-то элемент переносится.
func (e *Element) Append(children ...*Element) *Element {
	if !e.Valid() {
		return e
	}

	for _, c := range children {
		if !c.Valid() || c == e {
			continue
		}

		c.detach()
		e.node.AppendChild(c.node)
		c.parent = e
		e.children = append(e.children, c)
	}

	return e
}

// InsertBefore вставляет child перед ref. ref == nil равносилен Append.
func (e *Element) InsertBefore(child, ref *Element) error {
	if !e.Valid() || !child.Valid() {
		return ErrDetached
	}

	if ref == nil {
		e.Append(child)
		return nil
	}

	i := slices.Index(e.children, ref)
	if i < 0 || !ref.Valid() {
		return ErrDetached
	}

	child.detach()
	// Индекс ref мог сдвинуться, если child был соседом.
	i = slices.Index(e.children, ref)
	e.node.InsertBefore(child.node, ref.node)
	child.parent = e
	e.children = slices.Insert(e.children, i, child)

	return nil
}

// AppendText добавляет текстовый узел.
func (e *Element) AppendText(s string) *Element {
	if !e.Valid() || s == "" {
		return e
	}

	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return e
}

// SetText заменяет содержимое текстом.
func (e *Element) SetText(s string) *Element {
	return e.Clear().AppendText(s)
}

// SetHTML заменяет содержимое разобранным HTML-фрагментом.
// Узлы фрагмента не становятся отслеживаемыми элементами.
func (e *Element) SetHTML(fragment string) error {
	if !e.Valid() {
		return ErrDetached
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.node)
	if err != nil {
		return err
	}

	e.Clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}

	return nil
}

// Clear удаляет всё содержимое, инвалидируя отслеживаемых детей.
func (e *Element) Clear() *Element {
	if !e.Valid() {
		return e
	}

	for _, c := range e.children {
		c.parent = nil
		c.invalidate()
	}
	e.children = nil

	for n := e.node.FirstChild; n != nil; n = e.node.FirstChild {
		e.node.RemoveChild(n)
	}

	return e
}

// Remove отсоединяет элемент и делает его хэндл (и хэндлы потомков) недействительным.
func (e *Element) Remove() {
	if !e.Valid() {
		return
	}

	e.detach()
	e.invalidate()
}

// Detach вынимает элемент из родителя, оставляя хэндл действительным:
// элемент можно вставить в другое место.
func (e *Element) Detach() *Element {
	if e.Valid() {
		e.detach()
	}

	return e
}

// detach вынимает узел из текущего родителя, не инвалидируя хэндл.
func (e *Element) detach() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}

	if e.parent != nil {
		e.parent.children = slices.DeleteFunc(e.parent.children, func(c *Element) bool { return c == e })
		e.parent = nil
	}
}

func (e *Element) invalidate() {
	for _, c := range e.children {
		c.parent = nil
		c.invalidate()
	}

	e.children = nil
	e.handlers = nil
	e.node = nil
}

// On подписывает обработчик на событие.
func (e *Element) On(event string, h Handler) *Element {
	if !e.Valid() || h == nil {
		return e
	}

	if e.handlers == nil {
		e.handlers = make(map[string][]Handler)
	}

	e.handlers[event] = append(e.handlers[event], h)
	return e
}

// Dispatch вызывает обработчики события по порядку подписки.
func (e *Element) Dispatch(ctx context.Context, event string) error {
	if !e.Valid() {
		return ErrDetached
	}

	if e.HasAttr("disabled") {
		return ErrDisabled
	}

	// Обработчик может удалить сам элемент, поэтому идём по копии.
	for _, h := range slices.Clone(e.handlers[event]) {
		h(ctx)
	}

	return nil
}

// Click - Dispatch(ctx, "click").
func (e *Element) Click(ctx context.Context) error {
	return e.Dispatch(ctx, "click")
}

// Visible - ни элемент, ни его отслеживаемые предки не скрыты атрибутом hidden.
func (e *Element) Visible() bool {
	if !e.Valid() {
		return false
	}

	for cur := e; cur != nil; cur = cur.parent {
		if cur.HasAttr("hidden") {
			return false
		}
	}

	return true
}

// Walk обходит отслеживаемое поддерево в глубину; fn == false прекращает обход.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !e.Valid() {
		return true
	}

	if !fn(e) {
		return false
	}

	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}

	return true
}

// FindByID ищет элемент поддерева по атрибуту id.
func (e *Element) FindByID(id string) (*Element, bool) {
	var found *Element
	e.Walk(func(el *Element) bool {
		if el.ID() == id {
			found = el
			return false
		}
		return true
	})

	return found, found != nil
}

// FindByClass возвращает все элементы поддерева с классом cls.
func (e *Element) FindByClass(cls string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el.HasClass(cls) {
			out = append(out, el)
		}
		return true
	})

	return out
}

// Text - текстовое содержимое узла со всеми потомками.
func (e *Element) Text() string {
	if !e.Valid() {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)

	return b.String()
}

// Render сериализует поддерево в HTML.
func (e *Element) Render(w io.Writer) error {
	if !e.Valid() {
		return ErrDetached
	}

	return html.Render(w, e.node)
}

// String - HTML поддерева; пустая строка для отсоединённого элемента.
func (e *Element) String() string {
	var buf bytes.Buffer
	if err := e.Render(&buf); err != nil {
		return ""
	}

	return buf.String()
}
