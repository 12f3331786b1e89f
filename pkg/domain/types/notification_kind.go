package types

// NotificationKind represents the reason a notification was produced
type NotificationKind string

const (
	NotificationTicketAssigned NotificationKind = "ticket_assigned"
	NotificationCommentAdded   NotificationKind = "comment_added"
	NotificationCommentReply   NotificationKind = "comment_reply"
	NotificationMemberInvited  NotificationKind = "member_invited"
)

// IsValid checks if the notification kind is valid
func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationTicketAssigned,
		NotificationCommentAdded,
		NotificationCommentReply,
		NotificationMemberInvited:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification kind
func (k NotificationKind) String() string {
	return string(k)
}
