package ytdlp

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// progressInterval throttles progress callbacks from go-ytdlp
const progressInterval = 250 * time.Millisecond

// stderrTail bounds how much extractor output is attached to errors
const stderrTail = 2048

// Client implements interfaces.Extractor on top of the yt-dlp program
type Client struct {
	executable  string
	cookiesFile string
	proxy       string
}

// Option configures Client
type Option func(*Client)

// WithExecutable sets the yt-dlp binary path
func WithExecutable(path string) Option {
	return func(c *Client) {
		c.executable = path
	}
}

// WithCookiesFile passes a Netscape cookie file to every invocation
func WithCookiesFile(path string) Option {
	return func(c *Client) {
		c.cookiesFile = path
	}
}

// WithProxy routes extractor traffic through proxy
func WithProxy(proxy string) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// NewClient creates a Client. yt-dlp is looked up in PATH unless an executable is set.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Install resolves a yt-dlp binary, downloading it into the user cache when
// missing, and returns a Client using it
func Install(ctx context.Context, opts ...Option) (*Client, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to install yt-dlp")
	}

	ctxlog.From(ctx).Info("yt-dlp resolved",
		"executable", resolved.Executable,
		"version", resolved.Version,
	)

	return NewClient(append([]Option{WithExecutable(resolved.Executable)}, opts...)...), nil
}

func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New().
		NoPlaylist().
		NoWarnings()
	if c.executable != "" {
		cmd.SetExecutable(c.executable)
	}
	if c.cookiesFile != "" {
		cmd.Cookies(c.cookiesFile)
	}
	if c.proxy != "" {
		cmd.Proxy(c.proxy)
	}
	return cmd
}

// ExtractInfo runs yt-dlp in metadata-only mode
func (c *Client) ExtractInfo(ctx context.Context, url string) (*model.MediaMetadata, error) {
	cmd := c.command().
		NoFlatPlaylist().
		SkipDownload().
		DumpSingleJSON()

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, runError(err, result, url)
	}

	meta, err := decodeInfo([]byte(result.Stdout))
	if err != nil {
		return nil, goerr.Wrap(err, "unexpected extractor output", goerr.V("url", url))
	}
	return meta, nil
}

// Download runs yt-dlp in download mode, forwarding progress to sink
func (c *Client) Download(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
	logger := ctxlog.From(ctx)

	cmd := c.command().
		Output(opts.OutputTemplate).
		Format(opts.Format).
		PrintJSON()

	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.Audio != nil {
		cmd.ExtractAudio().
			AudioFormat(opts.Audio.Codec).
			AudioQuality(opts.Audio.Bitrate + "K")
	}
	if opts.Subtitle != nil {
		if opts.Subtitle.Auto {
			cmd.WriteAutoSubs()
		} else {
			cmd.WriteSubs()
		}
		cmd.SubLangs(opts.Subtitle.Lang).EmbedSubs()
	}
	if opts.MaxFileSize > 0 {
		cmd.MaxFileSize(strconv.FormatInt(opts.MaxFileSize, 10))
	}

	if sink != nil {
		cmd.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			if ev, ok := sampleOf(update).toEvent(time.Now()); ok {
				sink.OnProgress(ev)
			}
		})
	}

	logger.Debug("Running yt-dlp download",
		"url", url,
		"format", opts.Format,
		"output", opts.OutputTemplate,
	)

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, runError(err, result, url)
	}

	return decodeInfoLines(result.Stdout), nil
}

func runError(err error, result *ytdlp.Result, url string) error {
	opts := []goerr.Option{goerr.V("url", url)}
	if result != nil {
		stderr := strings.TrimSpace(result.Stderr)
		if len(stderr) > stderrTail {
			stderr = stderr[len(stderr)-stderrTail:]
		}
		opts = append(opts, goerr.V("exit_code", result.ExitCode), goerr.V("stderr", stderr))
	}
	return goerr.Wrap(err, "yt-dlp failed", opts...)
}
