package slack

import (
	"github.com/GriffinCanCode/slackwire/internal/objects"
	"github.com/GriffinCanCode/slackwire/internal/transport"
)

// ParseMode controls server-side parsing of message text
type ParseMode int

const (
	// ParseDefault omits the parse parameter
	ParseDefault ParseMode = iota
	ParseFull
	ParseNone
)

// Wire returns the parse parameter value, empty for ParseDefault
func (p ParseMode) Wire() string {
	switch p {
	case ParseFull:
		return "full"
	case ParseNone:
		return "none"
	default:
		return ""
	}
}

// MessageOptions are the send-time settings applied on top of a message
type MessageOptions struct {
	AsUser      bool
	LinkNames   bool
	UnfurlLinks bool
	UnfurlMedia bool
	Parse       ParseMode

	// IconEmoji wins over IconURL when both are set
	IconEmoji string
	IconURL   string

	// Username and the fields below are only sent by PostText
	Username string
	// Format maps to the mrkdwn parameter
	Format bool
	// Deprecated: Attachments is the legacy payload; build a Message with blocks instead.
	Attachments []*objects.Attachment
}

// DefaultMessageOptions returns the options used when none are given
func DefaultMessageOptions() MessageOptions {
	return MessageOptions{
		UnfurlMedia: true,
		Format:      true,
	}
}

// apply writes the shared send options onto params
func (o MessageOptions) apply(params *transport.Params) {
	params.SetBool("as_user", o.AsUser)
	linkNames := int64(0)
	if o.LinkNames {
		linkNames = 1
	}
	params.SetInt("link_names", linkNames)
	params.SetBool("unfurl_links", o.UnfurlLinks)
	params.SetBool("unfurl_media", o.UnfurlMedia)

	switch {
	case o.IconEmoji != "":
		params.Set("icon_emoji", o.IconEmoji)
	case o.IconURL != "":
		params.Set("icon_url", o.IconURL)
	}

	if parse := o.Parse.Wire(); parse != "" {
		params.Set("parse", parse)
	}
}
