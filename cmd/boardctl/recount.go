package main

import (
	"fmt"

	"taskboard/internal/identity"
	"taskboard/internal/service"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const boardIDFlag = "board-id"

var recountFlags = map[string]cobraflags.Flag{
	boardIDFlag: &cobraflags.StringFlag{
		Name:  boardIDFlag,
		Value: "",
		Usage: "Only reconcile this board (default: every board)",
	},
}

func newRecountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recount",
		Short: "Reconcile member_count and task_count with the stored rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			boardID := recountFlags[boardIDFlag].GetString()
			if boardID != "" {
				if boardID, err = identity.ParseID(boardID); err != nil {
					return err
				}
			}

			boards := service.NewBoardService(service.NewPgStore(pool), service.Options{Timeout: cfg.DBTimeout})
			n, err := boards.Recount(ctx, boardID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d board(s)\n", n)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, recountFlags)
	return cmd
}
