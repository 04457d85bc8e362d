package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/cli/config"
	"github.com/m-mizutani/unidl/pkg/infra/store"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
	"github.com/urfave/cli/v3"
)

func cmdInfo() *cli.Command {
	var (
		ytdlpCfg config.YtDlp
		lang     string
		asJSON   bool
	)

	flags := append(ytdlpCfg.Flags(),
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Output language (en, he)",
			Value:       "en",
			Destination: &lang,
			Sources:     cli.EnvVars("UNIDL_LANG"),
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the metadata as JSON",
			Destination: &asJSON,
		},
	)

	return &cli.Command{
		Name:      "info",
		Aliases:   []string{"i"},
		Usage:     "Show what is behind a media URL without downloading it",
		ArgsUsage: "<url>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one URL is required", goerr.V("args", c.Args().Slice()))
			}

			extractor, err := ytdlpCfg.Build(ctx)
			if err != nil {
				return err
			}

			mediaUC := usecase.NewMedia(extractor, store.NewMemory(store.DefaultTTL))
			ins, err := mediaUC.Inspect(ctx, c.Args().First())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(ins); err != nil {
					return goerr.Wrap(err, "failed to encode metadata")
				}
				return nil
			}

			bundle, err := i18n.NewBundle(lang)
			if err != nil {
				return err
			}
			printCard(os.Stdout, bundle.Localizer(lang), ins)
			return nil
		},
	}
}
