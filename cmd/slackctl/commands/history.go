package commands

import (
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// history --channel C: print recent messages of a conversation.
func historyCmd() *cobra.Command {
	var (
		channel string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent messages of a conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := client.History(cmd.Context(), id.ObjectID(channel), limit)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), msgs)
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "conversation ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of messages (0 uses the server default)")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}
