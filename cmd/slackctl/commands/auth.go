package commands

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// auth: check the token and print who it belongs to.
func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Check the token and print its identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := client.AuthTest(cmd.Context())
			if err != nil {
				return err
			}
			out := codec.Object{
				"url":     info.URL,
				"team":    info.Team,
				"user":    info.User,
				"team_id": info.TeamID.String(),
				"user_id": info.UserID.String(),
			}
			if info.BotID != nil {
				out["bot_id"] = lo.FromPtr(info.BotID)
			}
			return printTree(cmd.OutOrStdout(), out)
		},
	}
}
