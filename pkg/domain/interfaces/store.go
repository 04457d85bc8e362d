package interfaces

import (
	"context"

	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// SessionStore keeps session state and parked files. Entries expire after the
// store's TTL; a missing entry is reported as (nil, nil).
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*model.Session, error)
	PutSession(ctx context.Context, session *model.Session) error

	// PutFile parks a delivered file, replacing any previous one
	PutFile(ctx context.Context, sessionID string, file *model.DeliveredFile) error
	// TakeFile returns the parked file and removes it
	TakeFile(ctx context.Context, sessionID string) (*model.DeliveredFile, error)
}

// Notifier announces completed downloads
type Notifier interface {
	NotifyDownload(ctx context.Context, ev *model.DownloadEvent) error
}
