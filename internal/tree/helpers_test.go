package tree

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// call - одно обращение к recSink.
type call struct {
	Op        string
	ID        uuid.UUID
	Direction int8
	Approve   bool
}

// recSink записывает действия пользователя.
type recSink struct {
	mu    sync.Mutex
	calls []call
}

func (s *recSink) add(c call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *recSink) Vote(_ context.Context, card *Card, d int8) {
	s.add(call{Op: "vote", ID: card.ID(), Direction: d})
}
func (s *recSink) Reply(_ context.Context, card *Card)  { s.add(call{Op: "reply", ID: card.ID()}) }
func (s *recSink) Edit(_ context.Context, card *Card)   { s.add(call{Op: "edit", ID: card.ID()}) }
func (s *recSink) Delete(_ context.Context, card *Card) { s.add(call{Op: "delete", ID: card.ID()}) }
func (s *recSink) Sticky(_ context.Context, card *Card) { s.add(call{Op: "sticky", ID: card.ID()}) }
func (s *recSink) Moderate(_ context.Context, card *Card, approve bool) {
	s.add(call{Op: "moderate", ID: card.ID(), Approve: approve})
}

// answer - диалог с заранее заданным ответом.
type answer struct {
	yes    bool
	asked  int
	prompt string
}

func (a *answer) Confirm(_ context.Context, prompt string) bool {
	a.asked++
	a.prompt = prompt
	return a.yes
}

// comment - корневой одобренный комментарий с заданным временем создания.
func comment(minute int) models.Comment {
	return models.Comment{
		ID:          uuid.New(),
		Markdown:    "text",
		HTML:        "<p>text</p>",
		Score:       models.IntPtr(0),
		IsApproved:  true,
		CreatedTime: testNow.Add(-time.Hour).Add(time.Duration(minute) * time.Minute),
	}
}

func replyTo(parent models.Comment, minute int) models.Comment {
	c := comment(minute)
	c.ParentID = models.UUIDPtr(parent.ID)
	return c
}

func byUser(c models.Comment, uid uuid.UUID) models.Comment {
	c.UserCreated = models.UUIDPtr(uid)
	return c
}

func newRC(sink Sink, comments ...models.Comment) *RenderingContext {
	return &RenderingContext{
		ParentMap:  models.GroupByParent(comments),
		Commenters: models.Commenters{},
		Sort:       models.SortTimeAsc,
		Voting:     true,
		Perms:      Permissions{EditAuthor: true, EditModerator: true, DeleteAuthor: true, DeleteModerator: true},
		Now:        testNow,
		MaxLevel:   10,
		Sink:       sink,
	}
}

func ids(cards []*Card) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID())
	}
	return out
}
