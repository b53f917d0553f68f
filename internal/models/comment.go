// Package models содержит доменные сущности виджета комментариев и утилиты
// группировки/сортировки над ними.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RootKey - ключ корневого списка в CommentsGroupedByID.
// uuid.Nil никогда не выдаётся бэкендом как идентификатор комментария.
var RootKey = uuid.Nil

// ModerationStatus - ровно одно из состояний модерации комментария.
type ModerationStatus int

const (
	StatusApproved ModerationStatus = iota
	StatusPending
	StatusRejected
	StatusDeleted
)

func (s ModerationStatus) String() string {
	switch s {
	case StatusApproved:
		return "approved"
	case StatusPending:
		return "pending"
	case StatusRejected:
		return "rejected"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Comment - узел дерева обсуждения в том виде, в каком его отдаёт бэкенд.
// Важно:
//   - ParentID == nil означает корневой комментарий; после создания не меняется;
//   - Score == nil - голосование выключено (отличается от нулевого счёта);
//   - Direction - голос текущего зрителя (-1/0/1);
//   - IsSticky имеет смысл только для корневых комментариев;
//   - UserCreated == nil - автор неизвестен (аноним или удалённый пользователь).
type Comment struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
	PageID      uuid.UUID  `json:"pageId"`
	Path        string     `json:"path,omitempty"`
	Markdown    string     `json:"markdown"`
	HTML        string     `json:"html"`
	Score       *int       `json:"score"`
	Direction   int8       `json:"direction"`
	IsSticky    bool       `json:"isSticky"`
	IsPending   bool       `json:"isPending"`
	IsApproved  bool       `json:"isApproved"`
	IsDeleted   bool       `json:"isDeleted"`
	UserCreated *uuid.UUID `json:"userCreated,omitempty"`
	AuthorName  string     `json:"authorName,omitempty"`
	CreatedTime time.Time  `json:"createdTime"`
	EditedTime  *time.Time `json:"editedTime,omitempty"`
}

// ParentKey возвращает ключ списка, в котором живёт комментарий.
func (c Comment) ParentKey() uuid.UUID {
	if c.ParentID == nil {
		return RootKey
	}

	return *c.ParentID
}

// IsRoot сообщает, что у комментария нет родителя.
func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}

// IsAuthoredBy сообщает, что комментарий создан пользователем userID.
func (c Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return c.UserCreated != nil && userID != uuid.Nil && *c.UserCreated == userID
}

// Status сводит флаги модерации к одному состоянию. Удаление перекрывает остальные.
func (c Comment) Status() ModerationStatus {
	switch {
	case c.IsDeleted:
		return StatusDeleted
	case c.IsPending:
		return StatusPending
	case c.IsApproved:
		return StatusApproved
	default:
		return StatusRejected
	}
}

// ScoreValue - счёт для сравнения; выключенное голосование считается нулём.
func (c Comment) ScoreValue() int {
	if c.Score == nil {
		return 0
	}

	return *c.Score
}

// IntPtr - хелпер для литералов Score.
func IntPtr(v int) *int { return &v }

// UUIDPtr - хелпер для литералов ParentID/UserCreated.
func UUIDPtr(v uuid.UUID) *uuid.UUID { return &v }
