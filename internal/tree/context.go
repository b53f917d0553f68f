// Package tree отрисовывает дерево комментариев: группированная карта, политика
// сортировки и контекст зрителя превращаются во вложенные карточки с кнопками.
package tree

import (
	"context"
	"time"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// Sink получает действия пользователя над карточками. Реализует оркестратор.
type Sink interface {
	Vote(ctx context.Context, card *Card, direction int8)
	Reply(ctx context.Context, card *Card)
	Edit(ctx context.Context, card *Card)
	Delete(ctx context.Context, card *Card)
	Moderate(ctx context.Context, card *Card, approve bool)
	Sticky(ctx context.Context, card *Card)
}

// Dialogs - подтверждения да/нет.
type Dialogs interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Avatars выдаёт адрес аватара автора.
type Avatars interface {
	AvatarURL(c models.Commenter) string
}

// Permissions - настройки домена, кто может править и удалять комментарии.
type Permissions struct {
	EditAuthor      bool
	EditModerator   bool
	DeleteAuthor    bool
	DeleteModerator bool
}

// PermissionsOf берёт флаги из настроек страницы.
func PermissionsOf(pi *models.PageInfo) Permissions {
	if pi == nil {
		return Permissions{}
	}

	return Permissions{
		EditAuthor:      pi.CommentEditingAuthor,
		EditModerator:   pi.CommentEditingModerator,
		DeleteAuthor:    pi.CommentDeletionAuthor,
		DeleteModerator: pi.CommentDeletionModerator,
	}
}

// ViewerReadonly - зритель не может писать: страница закрыта или у него роль "только чтение".
func ViewerReadonly(pi *models.PageInfo, p *models.Principal) bool {
	return pi.IsReadonly() || p.IsReadonlyOn()
}

// RenderingContext - общий для одного прохода отрисовки контекст.
// Карточки только читают его; карты ParentMap и Commenters патчит владелец.
type RenderingContext struct {
	ParentMap  models.CommentsGroupedByID
	Commenters models.Commenters
	Principal  *models.Principal
	Sort       models.SortPolicy
	// Readonly - страница закрыта (домен/страница) или зритель только читает.
	Readonly bool
	// Voting - голосование включено; иначе счёт и кнопки голосов не выводятся.
	Voting bool
	Perms  Permissions
	Now    time.Time
	// MaxLevel - уровень, с которого дочерние списки выводятся без отступа. <= 0 - никогда.
	MaxLevel int

	Sink    Sink
	Dialogs Dialogs
	Avatars Avatars
}

// unnest - дети карточки уровня level выводятся без отступа.
func (rc *RenderingContext) unnest(level int) bool {
	return rc.MaxLevel > 0 && level+1 >= rc.MaxLevel
}
