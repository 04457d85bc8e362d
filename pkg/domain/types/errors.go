package types

import "github.com/m-mizutani/goerr/v2"

// Error tags used across layers to classify failures. Controllers map them to
// localized notices and HTTP status codes with goerr.HasTag.
var (
	// ErrTagInvalidInput is attached when user input is rejected before any extractor call
	ErrTagInvalidInput = goerr.NewTag("invalid_input")

	// ErrTagExtraction is attached when the metadata fetch fails
	ErrTagExtraction = goerr.NewTag("extraction")

	// ErrTagDownload is attached when the download or post-processing fails
	ErrTagDownload = goerr.NewTag("download")

	// ErrTagBusy is attached when a download is rejected by the concurrency policy
	ErrTagBusy = goerr.NewTag("busy")

	// ErrTagTooLarge is attached when the produced file exceeds the size policy
	ErrTagTooLarge = goerr.NewTag("too_large")

	// ErrTagNotFound is attached when a session or parked file does not exist
	ErrTagNotFound = goerr.NewTag("not_found")
)
