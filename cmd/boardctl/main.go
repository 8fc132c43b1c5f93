// Command boardctl is the operator CLI for the task board service.
package main

import (
	"context"
	"fmt"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Operate the task board database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newRecountCommand(),
		newNormalizeIDCommand(),
	)
	return root
}

// connect loads configuration and opens the pool. Callers close the pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: 2})
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
