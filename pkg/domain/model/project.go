package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Project is the tenant boundary. Every other entity belongs to exactly one
// project and is destroyed when the project is deleted.
type Project struct {
	ID          types.ProjectID `firestore:"id" json:"id"`
	Name        string          `firestore:"name" json:"name"`
	Description string          `firestore:"description" json:"description"`
	OwnerID     types.UserID    `firestore:"owner_id" json:"owner_id"`
	// GroupID is the handle of the external identity group mirroring the
	// project members. Empty when no group service is configured.
	GroupID   string    `firestore:"group_id" json:"group_id,omitempty"`
	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at" json:"updated_at"`
}
