package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Policy holds resource limits of the download flow
type Policy struct {
	MaxConcurrent  int64
	MaxFileSizeMiB int64
	WorkRoot       string
}

// Flags returns CLI flags for resource limits
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "max-concurrent",
			Usage:       "Maximum downloads running at the same time",
			Value:       usecase.DefaultMaxConcurrent,
			Destination: &c.MaxConcurrent,
			Sources:     cli.EnvVars("UNIDL_MAX_CONCURRENT"),
		},
		&cli.Int64Flag{
			Name:        "max-file-size",
			Usage:       "Largest file delivered, in MiB (0 disables the limit)",
			Value:       usecase.DefaultMaxFileSize >> 20,
			Destination: &c.MaxFileSizeMiB,
			Sources:     cli.EnvVars("UNIDL_MAX_FILE_SIZE"),
		},
		&cli.StringFlag{
			Name:        "work-dir",
			Usage:       "Directory holding per-download working directories",
			Value:       os.TempDir(),
			Destination: &c.WorkRoot,
			Sources:     cli.EnvVars("UNIDL_WORK_DIR"),
		},
	}
}

// Options converts the policy into usecase options
func (c *Policy) Options() ([]usecase.MediaOption, error) {
	if c.MaxConcurrent < 1 {
		return nil, goerr.New("max-concurrent must be positive", goerr.V("value", c.MaxConcurrent))
	}
	if c.MaxFileSizeMiB < 0 {
		return nil, goerr.New("max-file-size must not be negative", goerr.V("value", c.MaxFileSizeMiB))
	}

	return []usecase.MediaOption{
		usecase.WithMaxConcurrent(c.MaxConcurrent),
		usecase.WithMaxFileSize(c.MaxFileSizeMiB << 20),
		usecase.WithWorkRoot(c.WorkRoot),
	}, nil
}
