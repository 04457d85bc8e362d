package config

import (
	"context"

	"github.com/m-mizutani/unidl/pkg/infra/ytdlp"
	"github.com/urfave/cli/v3"
)

// YtDlp holds extractor configuration
type YtDlp struct {
	Executable  string
	CookiesFile string
	Proxy       string
	Install     bool
}

// Flags returns CLI flags for extractor configuration
func (c *YtDlp) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ytdlp-path",
			Usage:       "Path to the yt-dlp executable (looked up in PATH when empty)",
			Destination: &c.Executable,
			Sources:     cli.EnvVars("UNIDL_YTDLP_PATH"),
		},
		&cli.BoolFlag{
			Name:        "ytdlp-install",
			Usage:       "Download yt-dlp into the user cache when it is missing",
			Destination: &c.Install,
			Sources:     cli.EnvVars("UNIDL_YTDLP_INSTALL"),
		},
		&cli.StringFlag{
			Name:        "cookies-file",
			Usage:       "Netscape cookie file passed to yt-dlp",
			Destination: &c.CookiesFile,
			Sources:     cli.EnvVars("UNIDL_COOKIES_FILE"),
		},
		&cli.StringFlag{
			Name:        "proxy",
			Usage:       "Proxy URL passed to yt-dlp",
			Destination: &c.Proxy,
			Sources:     cli.EnvVars("UNIDL_PROXY"),
		},
	}
}

// Build creates the extractor client
func (c *YtDlp) Build(ctx context.Context) (*ytdlp.Client, error) {
	var opts []ytdlp.Option
	if c.CookiesFile != "" {
		opts = append(opts, ytdlp.WithCookiesFile(c.CookiesFile))
	}
	if c.Proxy != "" {
		opts = append(opts, ytdlp.WithProxy(c.Proxy))
	}

	if c.Executable != "" {
		return ytdlp.NewClient(append(opts, ytdlp.WithExecutable(c.Executable))...), nil
	}
	if c.Install {
		return ytdlp.Install(ctx, opts...)
	}
	return ytdlp.NewClient(opts...), nil
}
