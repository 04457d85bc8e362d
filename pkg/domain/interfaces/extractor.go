package interfaces

import (
	"context"

	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// ProgressSink receives extractor progress reports. OnProgress is called
// synchronously from within Extractor.Download.
type ProgressSink interface {
	OnProgress(ev model.ProgressEvent)
}

// ProgressSinkFunc adapts a function to ProgressSink
type ProgressSinkFunc func(ev model.ProgressEvent)

// OnProgress calls f(ev)
func (f ProgressSinkFunc) OnProgress(ev model.ProgressEvent) {
	f(ev)
}

// Extractor defines operations of the external media extractor
type Extractor interface {
	// ExtractInfo fetches metadata without downloading anything
	ExtractInfo(ctx context.Context, url string) (*model.MediaMetadata, error)

	// Download fetches url according to opts and returns the info record of the
	// downloaded item. Files are written as opts.OutputTemplate describes.
	Download(ctx context.Context, url string, opts model.DownloadOptions, sink ProgressSink) (*model.MediaMetadata, error)
}
