package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackNotifier delivers notifications to a Slack channel via the Web API.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a Slack-backed notifier.
func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: channel,
	}
}

// SendResult posts the canonical Block Kit message with a recommendation
// colored attachment.
func (n *SlackNotifier) SendResult(ctx context.Context, payload *Payload) (string, error) {
	_, ts, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(payload.Blocks()...),
		slack.MsgOptionAttachments(slack.Attachment{
			Color:    payload.color(),
			Fallback: payload.fallbackText(),
		}),
	)
	if err != nil {
		return "", fmt.Errorf("post interview result: %w", err)
	}
	return ts, nil
}

// SendError posts a plain-text error notification.
func (n *SlackNotifier) SendError(ctx context.Context, message, callID string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(errorText(message, callID), false),
	)
	if err != nil {
		return fmt.Errorf("post error notification: %w", err)
	}
	return nil
}
