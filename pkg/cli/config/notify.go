package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds completion notification configuration
type Slack struct {
	WebhookURL string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook notified after each download",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("UNIDL_SLACK_WEBHOOK_URL"),
		},
	}
}

// Build returns the notifier, or nil when no webhook is configured
func (c *Slack) Build() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.WebhookURL)
}

// Sentry holds error reporting configuration
type Sentry struct {
	DSN         string
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN; errors are reported when set",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("UNIDL_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "production",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("UNIDL_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry client. It reports false and a no-op
// flush when no DSN is set.
func (c *Sentry) Configure() (bool, func(), error) {
	if c.DSN == "" {
		return false, func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     types.ServiceName + "@" + types.Version,
	}); err != nil {
		return false, nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	return true, func() { sentry.Flush(2 * time.Second) }, nil
}
