package main

import (
	"context"

	"github.com/urfave/cli/v3"

	kpg "github.com/tonearm/labeld/pkg/db/postgres"
)

// SchemaUpgrade applies pending schema versions, speaking to the
// database directly. Run it before starting labeld on a new schema.
func (r *Runner) SchemaUpgrade(ctx context.Context, cmd *cli.Command) error {
	p, err := r.profile(cmd)
	if err != nil {
		return err
	}

	repository := cmd.String("repository")
	if repository == "" {
		repository = p.Database.SchemaRepository
	}

	db, err := kpg.New(
		ctx, p.Database.URI,
		kpg.WithSchemaRepository(repository),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		return err
	}

	version, err := db.Schema().Version(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("schema upgraded", "version", version)
	return nil
}
