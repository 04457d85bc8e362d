package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/cli/config"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/infra/store"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

func cmdGet() *cli.Command {
	var (
		ytdlpCfg  config.YtDlp
		policyCfg config.Policy
		req       model.DownloadRequest
		kind      string
		subLang   string
		outputDir string
		lang      string
	)

	var flags []cli.Flag
	flags = append(flags, ytdlpCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "kind",
			Aliases:     []string{"k"},
			Usage:       "Media kind (video, audio)",
			Value:       string(model.MediaKindVideo),
			Destination: &kind,
		},
		&cli.StringFlag{
			Name:        "preset",
			Usage:       "Video quality preset (best, 2160p, 1080p, 720p, 480p, 360p)",
			Value:       model.DefaultVideoPreset,
			Destination: &req.VideoPreset,
		},
		&cli.StringFlag{
			Name:        "sub-lang",
			Usage:       "Embed subtitles in this language; auto-generated captions are used when no human track exists",
			Destination: &subLang,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Audio format (mp3, m4a, wav)",
			Value:       model.DefaultAudioFormat,
			Destination: &req.AudioFormat,
		},
		&cli.StringFlag{
			Name:        "quality",
			Usage:       "Audio bitrate in kbps (320, 192, 128)",
			Value:       model.DefaultAudioQuality,
			Destination: &req.AudioQuality,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory the downloaded file is written to",
			Value:       ".",
			Destination: &outputDir,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Output language (en, he)",
			Value:       "en",
			Destination: &lang,
			Sources:     cli.EnvVars("UNIDL_LANG"),
		},
	)

	return &cli.Command{
		Name:      "get",
		Aliases:   []string{"g"},
		Usage:     "Download one media URL to a local file",
		ArgsUsage: "<url>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("exactly one URL is required", goerr.V("args", c.Args().Slice()))
			}

			bundle, err := i18n.NewBundle(lang)
			if err != nil {
				return err
			}
			l := bundle.Localizer(lang)

			extractor, err := ytdlpCfg.Build(ctx)
			if err != nil {
				return err
			}
			policyOpts, err := policyCfg.Options()
			if err != nil {
				return err
			}

			mediaUC := usecase.NewMedia(extractor, store.NewMemory(store.DefaultTTL), policyOpts...)
			sessionID := uuid.NewString()

			sess, err := mediaUC.Check(ctx, sessionID, c.Args().First())
			if err != nil {
				return err
			}
			printCard(os.Stdout, l, &model.Inspection{Platform: sess.Platform, Metadata: sess.Metadata})

			req.Kind = model.MediaKind(kind)
			if subLang != "" {
				key, err := subtitleKey(sess.Metadata, subLang)
				if err != nil {
					return err
				}
				req.SubtitleKey = key
			}

			progress := &termProgress{w: os.Stderr, l: l}
			file, err := mediaUC.Download(ctx, sessionID, req, progress)
			progress.done()
			if err != nil {
				return err
			}

			path := filepath.Join(outputDir, file.Name)
			if err := afero.WriteFile(afero.NewOsFs(), path, file.Data, 0644); err != nil {
				return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
			}

			okColor.Println(l.T("done.success"))
			fmt.Println(l.T("done.size", humanize.FileSize(file.Size, l.T("card.unknown"))))
			fmt.Println(path)

			logger.Debug("Download saved", slog.String("path", path), slog.Int64("size", file.Size))
			return nil
		},
	}
}

// subtitleKey prefers a human-authored track and falls back to auto captions
func subtitleKey(meta *model.MediaMetadata, lang string) (string, error) {
	for _, key := range []string{lang, "auto:" + lang} {
		if _, ok := meta.LookupSubtitle(key); ok {
			return key, nil
		}
	}
	return "", goerr.New("no subtitles in the requested language",
		goerr.V("lang", lang), goerr.T(types.ErrTagInvalidInput))
}
