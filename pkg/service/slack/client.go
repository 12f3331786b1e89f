package slack

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// DefaultHandlePrefix is the default prefix for project user group handles
const DefaultHandlePrefix = "proj"

// Client delivers notifications as Slack DMs and mirrors project membership
// into Slack user groups. User IDs are expected to be Slack user IDs.
type Client struct {
	api          *slack.Client
	handlePrefix string

	mu      sync.Mutex
	dmCache map[types.UserID]string
}

var (
	_ interfaces.Notifier      = (*Client)(nil)
	_ interfaces.IdentityGroup = (*Client)(nil)
)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHandlePrefix sets the prefix for generated user group handles
func WithHandlePrefix(prefix string) Option {
	return func(c *Client) {
		c.handlePrefix = prefix
	}
}

// New creates a new Slack client with the provided bot token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &Client{
		api:          slack.New(token),
		handlePrefix: DefaultHandlePrefix,
		dmCache:      make(map[types.UserID]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Notify sends the notification as a direct message to the user
func (c *Client) Notify(ctx context.Context, notification *model.Notification) error {
	channelID, err := c.dmChannel(ctx, notification.UserID)
	if err != nil {
		return err
	}

	text := notification.Message
	if text == "" {
		text = notification.Kind.String()
	}

	if _, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return goerr.Wrap(err, "failed to post notification message",
			goerr.V("user_id", notification.UserID),
			goerr.V("kind", notification.Kind),
		)
	}

	return nil
}

// dmChannel opens (or returns the cached) DM conversation with the user
func (c *Client) dmChannel(ctx context.Context, userID types.UserID) (string, error) {
	c.mu.Lock()
	cached, ok := c.dmCache[userID]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID.String()},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to open DM conversation", goerr.V("user_id", userID))
	}

	c.mu.Lock()
	c.dmCache[userID] = channel.ID
	c.mu.Unlock()

	return channel.ID, nil
}

// CreateGroup creates a Slack user group for the project and returns its ID
func (c *Client) CreateGroup(ctx context.Context, projectID types.ProjectID, name string) (string, error) {
	group, err := c.api.CreateUserGroupContext(ctx, slack.UserGroup{
		Name:        name,
		Handle:      GenerateGroupHandle(projectID, name, c.handlePrefix),
		Description: "Members of project " + name,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create user group",
			goerr.V("project_id", projectID),
			goerr.V("name", name),
		)
	}

	return group.ID, nil
}

// AddMember adds a user to the group
func (c *Client) AddMember(ctx context.Context, groupID string, userID types.UserID) error {
	members, err := c.api.GetUserGroupMembersContext(ctx, groupID)
	if err != nil {
		return goerr.Wrap(err, "failed to get user group members", goerr.V("group_id", groupID))
	}

	for _, member := range members {
		if member == userID.String() {
			return nil
		}
	}
	members = append(members, userID.String())

	if _, err := c.api.UpdateUserGroupMembersContext(ctx, groupID, strings.Join(members, ",")); err != nil {
		return goerr.Wrap(err, "failed to update user group members",
			goerr.V("group_id", groupID),
			goerr.V("user_id", userID),
		)
	}

	return nil
}

// RemoveMember removes a user from the group
func (c *Client) RemoveMember(ctx context.Context, groupID string, userID types.UserID) error {
	members, err := c.api.GetUserGroupMembersContext(ctx, groupID)
	if err != nil {
		return goerr.Wrap(err, "failed to get user group members", goerr.V("group_id", groupID))
	}

	remaining := make([]string, 0, len(members))
	for _, member := range members {
		if member != userID.String() {
			remaining = append(remaining, member)
		}
	}
	if len(remaining) == len(members) {
		return nil
	}

	// The API rejects an empty member list, so the last member stays until
	// the group itself is disabled.
	if len(remaining) == 0 {
		return nil
	}

	if _, err := c.api.UpdateUserGroupMembersContext(ctx, groupID, strings.Join(remaining, ",")); err != nil {
		return goerr.Wrap(err, "failed to update user group members",
			goerr.V("group_id", groupID),
			goerr.V("user_id", userID),
		)
	}

	return nil
}

// DeleteGroup disables the group. Slack user groups cannot be deleted
// outright, so disabling is the closest equivalent.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := c.api.DisableUserGroupContext(ctx, groupID); err != nil {
		return goerr.Wrap(err, "failed to disable user group", goerr.V("group_id", groupID))
	}
	return nil
}
