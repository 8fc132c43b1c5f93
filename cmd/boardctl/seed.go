package main

import (
	"fmt"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const demoPassword = "taskboard-demo"

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create two demo users sharing a board with one task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := service.NewPgStore(pool)
			opts := service.Options{Timeout: cfg.DBTimeout}
			users := service.NewUserService(store, opts)
			boards := service.NewBoardService(store, opts)
			members := service.NewMembershipService(store, opts)
			tasks := service.NewTaskService(store, opts)

			// Suffix keeps repeated seeds clear of the unique username/email constraints.
			suffix := uuid.NewString()[:8]
			newUser := func(name, full string) (*domain.User, error) {
				return users.Create(ctx, domain.NewUser{
					Username: name + "_" + suffix,
					Email:    name + "+" + suffix + "@example.com",
					Password: demoPassword,
					FullName: full,
				})
			}

			owner, err := newUser("alice", "Alice Demo")
			if err != nil {
				return fmt.Errorf("create owner: %w", err)
			}
			peer, err := newUser("bob", "Bob Demo")
			if err != nil {
				return fmt.Errorf("create member: %w", err)
			}

			desc := "Seeded board"
			board, err := boards.Create(ctx, domain.NewBoard{
				Name:        "Demo board " + suffix,
				Description: &desc,
				CreatedBy:   owner.ID,
			})
			if err != nil {
				return fmt.Errorf("create board: %w", err)
			}
			if _, err := members.Add(ctx, board.ID, domain.NewMember{UserID: peer.ID}); err != nil {
				return fmt.Errorf("add member: %w", err)
			}

			due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
			task, err := tasks.Create(ctx, domain.NewTask{
				Title:      "Try the API",
				BoardID:    board.ID,
				CreatedBy:  owner.ID,
				AssignedTo: &peer.ID,
				DueDate:    &due,
				Tags:       []string{"demo"},
			})
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "owner   %s (%s)\n", owner.ID, owner.Username)
			fmt.Fprintf(out, "member  %s (%s)\n", peer.ID, peer.Username)
			fmt.Fprintf(out, "board   %s\n", board.ID)
			fmt.Fprintf(out, "task    %s\n", task.ID)
			fmt.Fprintf(out, "password for both users: %s\n", demoPassword)

			if cfg.JWTSecret != "" {
				tokens, err := service.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
				if err != nil {
					return err
				}
				tok, err := tokens.Generate(owner.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "token   %s\n", tok)
			}
			return nil
		},
	}
}
