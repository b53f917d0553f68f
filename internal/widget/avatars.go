package widget

import (
	"strings"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// Avatars - адреса аватаров на инстансе baseURL.
type Avatars struct {
	BaseURL string
	// Size - S, M или L.
	Size string
}

func (a Avatars) AvatarURL(c models.Commenter) string {
	size := a.Size
	if size == "" {
		size = "M"
	}

	return strings.TrimRight(a.BaseURL, "/") + "/api/users/" + c.ID.String() + "/avatar?size=" + size
}
