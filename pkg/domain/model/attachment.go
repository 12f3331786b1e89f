package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Attachment records a file uploaded to a ticket. The bytes live in the blob
// store under BlobKey; the project deletion cascade removes the blob before
// the record.
type Attachment struct {
	ID         types.AttachmentID `firestore:"id" json:"id"`
	ProjectID  types.ProjectID    `firestore:"project_id" json:"project_id"`
	TicketID   types.TicketID     `firestore:"ticket_id" json:"ticket_id"`
	Filename   string             `firestore:"filename" json:"filename"`
	Size       int64              `firestore:"size" json:"size"`
	BlobKey    string             `firestore:"blob_key" json:"blob_key"`
	UploadedBy types.UserID       `firestore:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time          `firestore:"created_at" json:"created_at"`
}
