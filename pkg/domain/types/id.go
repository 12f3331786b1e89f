package types

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// idPattern is the shape every externally-supplied identifier must match.
// Malformed identifiers are rejected before any repository call is made.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateID(kind, s string) error {
	if s == "" {
		return goerr.Wrap(ErrValidationFailed, kind+" ID is empty")
	}
	if !idPattern.MatchString(s) {
		return goerr.Wrap(ErrValidationFailed, "invalid "+kind+" ID format", goerr.V("id", s))
	}
	return nil
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ProjectID identifies a project
type ProjectID string

// NewProjectID generates a new random project ID
func NewProjectID() ProjectID { return ProjectID(newID()) }

// Validate checks the ID format
func (x ProjectID) Validate() error { return validateID("project", string(x)) }

// String returns the string representation
func (x ProjectID) String() string { return string(x) }

// UserID identifies an authenticated user. User identities are managed
// outside of this system; only the format is validated here.
type UserID string

// Validate checks the ID format
func (x UserID) Validate() error { return validateID("user", string(x)) }

// String returns the string representation
func (x UserID) String() string { return string(x) }

// TicketID identifies a ticket
type TicketID string

// NewTicketID generates a new random ticket ID
func NewTicketID() TicketID { return TicketID(newID()) }

// Validate checks the ID format
func (x TicketID) Validate() error { return validateID("ticket", string(x)) }

// String returns the string representation
func (x TicketID) String() string { return string(x) }

// CommentID identifies a comment
type CommentID string

// NewCommentID generates a new random comment ID
func NewCommentID() CommentID { return CommentID(newID()) }

// Validate checks the ID format
func (x CommentID) Validate() error { return validateID("comment", string(x)) }

// String returns the string representation
func (x CommentID) String() string { return string(x) }

// SprintID identifies a sprint
type SprintID string

// NewSprintID generates a new random sprint ID
func NewSprintID() SprintID { return SprintID(newID()) }

// Validate checks the ID format
func (x SprintID) Validate() error { return validateID("sprint", string(x)) }

// String returns the string representation
func (x SprintID) String() string { return string(x) }

// ActivityID identifies an activity log entry
type ActivityID string

// NewActivityID generates a new random activity ID
func NewActivityID() ActivityID { return ActivityID(newID()) }

// String returns the string representation
func (x ActivityID) String() string { return string(x) }

// NotificationID identifies a notification
type NotificationID string

// NewNotificationID generates a new random notification ID
func NewNotificationID() NotificationID { return NotificationID(newID()) }

// String returns the string representation
func (x NotificationID) String() string { return string(x) }

// AttachmentID identifies an attachment
type AttachmentID string

// NewAttachmentID generates a new random attachment ID
func NewAttachmentID() AttachmentID { return AttachmentID(newID()) }

// Validate checks the ID format
func (x AttachmentID) Validate() error { return validateID("attachment", string(x)) }

// String returns the string representation
func (x AttachmentID) String() string { return string(x) }
