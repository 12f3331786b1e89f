package types

// ActivityAction names a state-changing operation in the audit trail
type ActivityAction string

const (
	ActivityProjectCreated  ActivityAction = "project_created"
	ActivityProjectUpdated  ActivityAction = "project_updated"
	ActivityTicketCreated   ActivityAction = "ticket_created"
	ActivityTicketUpdated   ActivityAction = "ticket_updated"
	ActivityTicketMoved     ActivityAction = "ticket_moved"
	ActivityTicketAssigned  ActivityAction = "ticket_assigned"
	ActivityTicketDeleted   ActivityAction = "ticket_deleted"
	ActivityCommentAdded    ActivityAction = "comment_added"
	ActivityCommentEdited   ActivityAction = "comment_edited"
	ActivityCommentDeleted  ActivityAction = "comment_deleted"
	ActivitySprintCreated   ActivityAction = "sprint_created"
	ActivitySprintStarted   ActivityAction = "sprint_started"
	ActivitySprintCompleted ActivityAction = "sprint_completed"
	ActivitySprintDeleted   ActivityAction = "sprint_deleted"
	ActivityMemberInvited   ActivityAction = "member_invited"
	ActivityMemberRoleSet   ActivityAction = "member_role_changed"
	ActivityMemberRemoved   ActivityAction = "member_removed"
	ActivityMemberLeft      ActivityAction = "member_left"
)

// String returns the string representation of the activity action
func (a ActivityAction) String() string {
	return string(a)
}
