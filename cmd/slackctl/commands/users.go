package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// users: list the workspace members.
func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List workspace members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			debugf("listed users", zap.Int("count", len(users)))
			return printList(cmd.OutOrStdout(), users)
		},
	}
}
