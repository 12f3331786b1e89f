package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/cli/config"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage API bearer tokens",
		Commands: []*cli.Command{
			cmdTokenIssue(),
			cmdTokenRevoke(),
		},
	}
}

func cmdTokenIssue() *cli.Command {
	var userID string
	var ttl time.Duration
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID to issue the token for (required)",
			Required:    true,
			Sources:     cli.EnvVars("SPRINTDECK_TOKEN_USER_ID"),
			Destination: &userID,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime",
			Value:       90 * 24 * time.Hour,
			Destination: &ttl,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "issue",
		Usage: "Issue a bearer token and print the credential",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			token, credential, err := uc.Auth.IssueToken(ctx, types.UserID(userID), ttl)
			if err != nil {
				return err
			}

			logging.Default().Info("Issued token",
				"token_id", token.ID,
				"user_id", token.UserID,
				"expires_at", token.ExpiresAt,
			)

			// The credential is shown exactly once; only its hash is stored.
			fmt.Println(credential)
			return nil
		},
	}
}

func cmdTokenRevoke() *cli.Command {
	var tokenID string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "token-id",
			Usage:       "Token ID to revoke (required)",
			Required:    true,
			Destination: &tokenID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "revoke",
		Usage: "Revoke a bearer token",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			if err := uc.Auth.RevokeToken(ctx, auth.TokenID(tokenID)); err != nil {
				return err
			}

			logging.Default().Info("Revoked token", "token_id", tokenID)
			return nil
		},
	}
}
