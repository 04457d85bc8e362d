package interfaces

import (
	"context"

	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// MediaUseCase defines the check/download flow of one session
type MediaUseCase interface {
	// Session loads the session, creating an idle one when id is unknown
	Session(ctx context.Context, id string) (*model.Session, error)

	// Check validates url and replaces the session's metadata. A failure leaves
	// the session without metadata and with exactly one notice.
	Check(ctx context.Context, sessionID, url string) (*model.Session, error)

	// Clear resets the checked URL and metadata but keeps history
	Clear(ctx context.Context, sessionID string) (*model.Session, error)

	// TakeNotice returns and clears the session's pending notice
	TakeNotice(ctx context.Context, sessionID string) (*model.Notice, error)

	// Download runs the extractor for the session's URL and parks the result
	// for TakeFile
	Download(ctx context.Context, sessionID string, req model.DownloadRequest, sink ProgressSink) (*model.DeliveredFile, error)

	// TakeFile returns the parked file once
	TakeFile(ctx context.Context, sessionID string) (*model.DeliveredFile, error)

	// Inspect fetches metadata for url without touching any session
	Inspect(ctx context.Context, url string) (*model.Inspection, error)
}
