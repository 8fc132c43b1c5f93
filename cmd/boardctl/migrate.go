package main

import (
	"fmt"

	"taskboard/internal/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "List pending schema migrations, or apply them with --apply",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if apply {
				applied, err := migrations.Apply(ctx, pool)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				}
				for _, v := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
				}
				return nil
			}

			pending, err := migrations.Pending(ctx, pool)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			for _, m := range pending {
				fmt.Fprintln(cmd.OutOrStdout(), "pending", m.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply pending migrations")
	return cmd
}
