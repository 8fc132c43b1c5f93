package main

import (
	"fmt"

	"taskboard/internal/identity"

	"github.com/spf13/cobra"
)

func newNormalizeIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-id <id>",
		Short: "Print the canonical form of an external identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity.Normalize(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
