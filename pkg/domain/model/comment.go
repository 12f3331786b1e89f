package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Comment belongs to a ticket. ParentID, when set, references another comment
// on the same ticket, forming a tree. The UI renders one level of nesting but
// the data model permits arbitrary depth, so deletion must traverse the full
// subtree.
type Comment struct {
	ID        types.CommentID `firestore:"id" json:"id"`
	TicketID  types.TicketID  `firestore:"ticket_id" json:"ticket_id"`
	ProjectID types.ProjectID `firestore:"project_id" json:"project_id"`
	ParentID  types.CommentID `firestore:"parent_id" json:"parent_id,omitempty"` // empty for top-level comments
	AuthorID  types.UserID    `firestore:"author_id" json:"author_id"`
	Body      string          `firestore:"body" json:"body"`
	CreatedAt time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time       `firestore:"updated_at" json:"updated_at"`
}

// IsReply reports whether the comment has a parent
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}
