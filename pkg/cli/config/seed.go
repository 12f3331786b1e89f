package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Seed holds CLI flags for bootstrap seeding. A seed file creates initial
// projects and memberships on startup, mainly for dev mode with the memory
// backend.
type Seed struct {
	path string
}

// SeedFile is the TOML document format of a seed file
type SeedFile struct {
	Projects []SeedProject `toml:"project"`
}

// SeedProject describes one project to create on startup
type SeedProject struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	Owner       string       `toml:"owner"`
	Members     []SeedMember `toml:"member"`
}

// Validate checks if the SeedProject is valid
func (p *SeedProject) Validate() error {
	if p.Name == "" {
		return goerr.New("project name is required")
	}
	if p.Owner == "" {
		return goerr.New("project owner is required", goerr.V("name", p.Name))
	}
	for _, m := range p.Members {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid member", goerr.V("project", p.Name))
		}
	}
	return nil
}

// SeedMember describes a membership to create alongside a seed project
type SeedMember struct {
	User string `toml:"user"`
	Role string `toml:"role"`
}

// Validate checks if the SeedMember is valid
func (m *SeedMember) Validate() error {
	if m.User == "" {
		return goerr.New("member user is required")
	}
	if !types.Role(m.Role).IsValid() {
		return goerr.New("invalid member role", goerr.V("user", m.User), goerr.V("role", m.Role))
	}
	return nil
}

// Flags returns CLI flags for seed configuration
func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "TOML file with initial projects and memberships to create on startup",
			Category:    "Seed",
			Sources:     cli.EnvVars("SPRINTDECK_SEED_FILE"),
			Destination: &x.path,
		},
	}
}

// Load reads and validates the seed file. Returns nil when no file is
// configured.
func (x *Seed) Load() (*SeedFile, error) {
	if x.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", x.path))
	}

	var seed SeedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.V("path", x.path))
	}

	for i := range seed.Projects {
		if err := seed.Projects[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid seed file", goerr.V("path", x.path))
		}
	}

	return &seed, nil
}

// Apply creates the seeded projects and memberships through the usecase
// layer, acting as each project's owner.
func (s *SeedFile) Apply(ctx context.Context, uc *usecase.UseCases) error {
	for _, p := range s.Projects {
		ownerCtx := auth.ContextWithUser(ctx, types.UserID(p.Owner))

		project, err := uc.Project.Create(ownerCtx, p.Name, p.Description)
		if err != nil {
			return goerr.Wrap(err, "failed to create seed project", goerr.V("name", p.Name))
		}

		for _, m := range p.Members {
			if _, err := uc.Member.Invite(ownerCtx, project.ID, types.UserID(m.User), types.Role(m.Role)); err != nil {
				return goerr.Wrap(err, "failed to invite seed member",
					goerr.V("project", p.Name),
					goerr.V("user", m.User),
				)
			}
		}

		logging.Default().Info("Seeded project",
			"project_id", project.ID,
			"name", p.Name,
			"members", len(p.Members),
		)
	}

	return nil
}

// LogValue implements slog.LogValuer
func (x Seed) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}
