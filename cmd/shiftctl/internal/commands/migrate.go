package commands

import (
	"context"

	"github.com/cmlabs-hris/shift-attendance/internal/repository/postgresql"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	// OpenRepositories already migrates when DB_AUTO_MIGRATE is set; re-running is a no-op
	return postgresql.RunMigrations(ctx, env.repos.DB)
}
