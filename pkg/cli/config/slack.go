package config

import (
	"log/slog"

	"github.com/sprintdeck/sprintdeck/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack integration
type Slack struct {
	botToken     string
	handlePrefix string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (enables DM notifications and user groups)",
			Category:    "Slack",
			Sources:     cli.EnvVars("SPRINTDECK_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-handle-prefix",
			Usage:       "Prefix for generated Slack user group handles",
			Value:       slack.DefaultHandlePrefix,
			Category:    "Slack",
			Sources:     cli.EnvVars("SPRINTDECK_SLACK_HANDLE_PREFIX"),
			Destination: &x.handlePrefix,
		},
	}
}

// Configured reports whether the Slack integration is enabled
func (x *Slack) Configured() bool {
	return x.botToken != ""
}

// Configure builds the Slack client. Returns nil when no bot token is set.
func (x *Slack) Configure() (*slack.Client, error) {
	if x.botToken == "" {
		return nil, nil
	}
	return slack.New(x.botToken, slack.WithHandlePrefix(x.handlePrefix))
}

// LogValue implements slog.LogValuer. The bot token is redacted.
func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.botToken != ""),
		slog.String("handle_prefix", x.handlePrefix),
	)
}
