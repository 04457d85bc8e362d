package model

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

// ValidateURL accepts only absolute http(s) URLs with a host, so that nothing
// resembling an extractor flag or a local path is passed on.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return goerr.New("url is empty", goerr.T(types.ErrTagInvalidInput))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return goerr.Wrap(err, "failed to parse url", goerr.V("url", raw), goerr.T(types.ErrTagInvalidInput))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.New("unsupported url scheme", goerr.V("url", raw), goerr.T(types.ErrTagInvalidInput))
	}
	if u.Host == "" {
		return goerr.New("url has no host", goerr.V("url", raw), goerr.T(types.ErrTagInvalidInput))
	}
	return nil
}
