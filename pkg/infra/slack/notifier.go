package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/slack-go/slack"
)

// Notifier posts completed downloads to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

// NewNotifier creates a Notifier for webhookURL
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// NotifyDownload posts one message describing ev
func (n *Notifier) NotifyDownload(ctx context.Context, ev *model.DownloadEvent) error {
	text := fmt.Sprintf("%s %s downloaded from %s %s (%s)",
		ev.Kind.Icon(), ev.Title, ev.Platform.Icon, ev.Platform.Name,
		humanize.FileSize(ev.Size, "?"))

	msg := &slack.WebhookMessage{
		Text: text,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s *%s*", ev.Kind.Icon(), ev.Title), false, false),
					[]*slack.TextBlockObject{
						slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Platform*\n%s %s", ev.Platform.Icon, ev.Platform.Name), false, false),
						slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Size*\n%s", humanize.FileSize(ev.Size, "?")), false, false),
					},
					nil,
				),
				slack.NewContextBlock("",
					slack.NewTextBlockObject(slack.MarkdownType, ev.URL, false, false),
				),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook",
			goerr.V("session_id", ev.SessionID),
			goerr.V("title", ev.Title))
	}
	return nil
}
