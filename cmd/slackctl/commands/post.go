package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/slackwire/internal/objects"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
	"github.com/GriffinCanCode/slackwire/internal/slack"
)

// post --channel C --text T: send a message and print the server's copy.
func postCmd() *cobra.Command {
	var (
		channel  string
		text     string
		threadTS string
		asUser   bool
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Send a message to a conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := objects.NewChannelMessage(text, id.ObjectID(channel))
			if threadTS != "" {
				msg.ThreadTS = &threadTS
			}

			opts := slack.DefaultMessageOptions()
			opts.AsUser = asUser

			sent, err := client.SendMessageWithOptions(cmd.Context(), msg, opts)
			if err != nil {
				return err
			}
			debugf("posted", zap.Stringer("message", sent))
			return printValue(cmd.OutOrStdout(), sent)
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "conversation ID")
	cmd.Flags().StringVar(&text, "text", "", "message text")
	cmd.Flags().StringVar(&threadTS, "thread", "", "reply in the thread of this timestamp")
	cmd.Flags().BoolVar(&asUser, "as-user", false, "post as the authed user")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
