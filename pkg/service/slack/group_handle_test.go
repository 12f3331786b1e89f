package slack_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/service/slack"
)

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "payments", "payments"},
		{"uppercase is lowered", "Payments", "payments"},
		{"spaces become hyphens", "payment platform", "payment-platform"},
		{"symbols are dropped", "pay.ments!v2", "paymentsv2"},
		{"non-ascii is dropped", "決済チーム", ""},
		{"underscores survive", "pay_ments", "pay_ments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, slack.NormalizeHandle(tc.input)).Equal(tc.expected)
		})
	}
}

func TestGenerateGroupHandle(t *testing.T) {
	t.Run("includes prefix and short project ID", func(t *testing.T) {
		handle := slack.GenerateGroupHandle(types.ProjectID("abcdef1234567890"), "Pay", "proj")
		gt.Value(t, handle).Equal("proj-abcdef12-pay")
	})

	t.Run("truncates to the handle limit", func(t *testing.T) {
		handle := slack.GenerateGroupHandle(types.ProjectID("abcdef1234567890"), "a very long project name", "proj")
		gt.B(t, len(handle) <= 21).True()
	})

	t.Run("no trailing hyphen after truncation", func(t *testing.T) {
		handle := slack.GenerateGroupHandle(types.ProjectID("abcdef1234567890"), "x", "proj")
		gt.B(t, len(handle) > 0).True()
		gt.B(t, handle[len(handle)-1] != '-').True()
	})
}
