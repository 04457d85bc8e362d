package http

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

// statusOf maps a tagged error to an HTTP status
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagInvalidInput):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, types.ErrTagTooLarge):
		return http.StatusRequestEntityTooLarge
	case goerr.HasTag(err, types.ErrTagBusy):
		return http.StatusServiceUnavailable
	case goerr.HasTag(err, types.ErrTagExtraction), goerr.HasTag(err, types.ErrTagDownload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageIDOf maps a tagged error to a catalog message id
func messageIDOf(err error) string {
	switch {
	case goerr.HasTag(err, types.ErrTagInvalidInput):
		return "error.invalid"
	case goerr.HasTag(err, types.ErrTagNotFound):
		return "error.not_found"
	case goerr.HasTag(err, types.ErrTagTooLarge):
		return "error.too_large"
	case goerr.HasTag(err, types.ErrTagBusy):
		return "error.busy"
	case goerr.HasTag(err, types.ErrTagExtraction):
		return "error.extraction"
	default:
		return "error.download"
	}
}

// logError logs err once at a level matching its status and reports
// unexpected failures to Sentry when the middleware is enabled
func logError(r *http.Request, msg string, err error) {
	logger := ctxlog.From(r.Context())
	status := statusOf(err)
	if status < http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		logger.Warn(msg, "error", err, "status", status)
		return
	}

	logger.Error(msg, "error", err, "status", status)
	if status == http.StatusInternalServerError {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
	}
}
