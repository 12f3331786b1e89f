package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/cli/config"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/repository/memory"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestSeedLoad(t *testing.T) {
	t.Run("no file configured returns nil", func(t *testing.T) {
		seed, err := config.NewSeedForTest("").Load()
		gt.NoError(t, err).Required()
		gt.Value(t, seed).Nil()
	})

	t.Run("parses a valid seed file", func(t *testing.T) {
		path := writeSeedFile(t, `
[[project]]
name = "Payments"
description = "payment platform"
owner = "U1"

  [[project.member]]
  user = "U2"
  role = "manager"

  [[project.member]]
  user = "U3"
  role = "viewer"
`)

		seed, err := config.NewSeedForTest(path).Load()
		gt.NoError(t, err).Required()
		gt.Array(t, seed.Projects).Length(1)
		gt.Value(t, seed.Projects[0].Name).Equal("Payments")
		gt.Array(t, seed.Projects[0].Members).Length(2)
	})

	t.Run("rejects a missing owner", func(t *testing.T) {
		path := writeSeedFile(t, `
[[project]]
name = "Orphan"
`)
		_, err := config.NewSeedForTest(path).Load()
		gt.Error(t, err)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		path := writeSeedFile(t, `
[[project]]
name = "Payments"
owner = "U1"

  [[project.member]]
  user = "U2"
  role = "superuser"
`)
		_, err := config.NewSeedForTest(path).Load()
		gt.Error(t, err)
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		_, err := config.NewSeedForTest("/nonexistent/seed.toml").Load()
		gt.Error(t, err)
	})
}

func TestSeedApply(t *testing.T) {
	path := writeSeedFile(t, `
[[project]]
name = "Payments"
owner = "U1"

  [[project.member]]
  user = "U2"
  role = "developer"
`)

	seed, err := config.NewSeedForTest(path).Load()
	gt.NoError(t, err).Required()

	repo := memory.New()
	uc := usecase.New(repo)
	gt.NoError(t, seed.Apply(context.Background(), uc)).Required()

	memberships, err := repo.Membership().ListByUser(context.Background(), "U2")
	gt.NoError(t, err).Required()
	gt.Array(t, memberships).Length(1)
	gt.Value(t, memberships[0].Role).Equal(types.RoleDeveloper)

	owners, err := repo.Membership().ListByUser(context.Background(), "U1")
	gt.NoError(t, err).Required()
	gt.Array(t, owners).Length(1)
	gt.Value(t, owners[0].Role).Equal(types.RoleAdmin)
}
