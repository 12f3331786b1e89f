package slack_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates client when token is provided", func(t *testing.T) {
		client, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, client).NotNil()
	})
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	userID := os.Getenv("TEST_SLACK_USER_ID")
	if token == "" || userID == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_USER_ID is not set")
	}

	ctx := context.Background()

	client, err := slack.New(token)
	gt.NoError(t, err).Required()

	t.Run("Notify delivers a DM", func(t *testing.T) {
		err := client.Notify(ctx, &model.Notification{
			UserID:  types.UserID(userID),
			Kind:    types.NotificationTicketAssigned,
			Message: "integration test: you have been assigned a ticket",
		})
		gt.NoError(t, err)
	})

	t.Run("group lifecycle", func(t *testing.T) {
		groupID, err := client.CreateGroup(ctx, types.NewProjectID(), "sprintdeck integration test")
		gt.NoError(t, err).Required()

		gt.NoError(t, client.AddMember(ctx, groupID, types.UserID(userID)))
		gt.NoError(t, client.RemoveMember(ctx, groupID, types.UserID(userID)))
		gt.NoError(t, client.DeleteGroup(ctx, groupID))
	})
}
