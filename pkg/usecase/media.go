package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/utils/async"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxConcurrent caps downloads running at the same time process-wide
	DefaultMaxConcurrent = 4
	// DefaultMaxFileSize is the largest file delivered to a user
	DefaultMaxFileSize int64 = 512 << 20
)

// Notice message ids, localized by the presentation layer
const (
	NoticeCheckOK     = "notice.check_ok"
	NoticeCheckFailed = "notice.check_failed"
	NoticeInvalidURL  = "notice.invalid_url"
	NoticeBusy        = "notice.busy"
)

type mediaUseCase struct {
	extractor    interfaces.Extractor
	store        interfaces.SessionStore
	notifier     interfaces.Notifier
	fs           afero.Fs
	orchestrator *Orchestrator
	sem          *semaphore.Weighted
	maxFileSize  int64
	workRoot     string
	now          func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// MediaOption configures the media usecase
type MediaOption func(*mediaUseCase)

// WithFileSystem sets the filesystem holding working directories
func WithFileSystem(fs afero.Fs) MediaOption {
	return func(uc *mediaUseCase) {
		uc.fs = fs
	}
}

// WithNotifier sets a notifier called after each successful download
func WithNotifier(n interfaces.Notifier) MediaOption {
	return func(uc *mediaUseCase) {
		uc.notifier = n
	}
}

// WithMaxConcurrent sets the process-wide download cap
func WithMaxConcurrent(n int64) MediaOption {
	return func(uc *mediaUseCase) {
		if n > 0 {
			uc.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithMaxFileSize sets the per-file size cap in bytes. Zero disables it.
func WithMaxFileSize(size int64) MediaOption {
	return func(uc *mediaUseCase) {
		uc.maxFileSize = size
	}
}

// WithWorkRoot sets the directory under which working directories are created
func WithWorkRoot(dir string) MediaOption {
	return func(uc *mediaUseCase) {
		uc.workRoot = dir
	}
}

// WithClock replaces time.Now for history timestamps
func WithClock(now func() time.Time) MediaOption {
	return func(uc *mediaUseCase) {
		uc.now = now
	}
}

// NewMedia creates a new instance of MediaUseCase
func NewMedia(extractor interfaces.Extractor, store interfaces.SessionStore, opts ...MediaOption) interfaces.MediaUseCase {
	uc := &mediaUseCase{
		extractor:   extractor,
		store:       store,
		fs:          afero.NewOsFs(),
		sem:         semaphore.NewWeighted(DefaultMaxConcurrent),
		maxFileSize: DefaultMaxFileSize,
		workRoot:    os.TempDir(),
		now:         time.Now,
		inflight:    make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(uc)
	}
	uc.orchestrator = NewOrchestrator(extractor, uc.fs)

	return uc
}

func (uc *mediaUseCase) Session(ctx context.Context, id string) (*model.Session, error) {
	sess, err := uc.store.GetSession(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load session", goerr.V("session_id", id))
	}
	if sess == nil {
		sess = model.NewSession(id)
	}
	return sess, nil
}

func (uc *mediaUseCase) Check(ctx context.Context, sessionID, rawURL string) (*model.Session, error) {
	logger := ctxlog.From(ctx)

	// held across the metadata fetch so a download cannot start from the
	// session this check is about to replace
	if !uc.acquire(sessionID) {
		sess, err := uc.Session(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sess.SetNotice(model.NoticeWarning, NoticeBusy)
		return sess, uc.saveWith(ctx, sess, busyError(sessionID))
	}
	defer uc.release(sessionID)

	sess, err := uc.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rawURL = strings.TrimSpace(rawURL)
	if err := model.ValidateURL(rawURL); err != nil {
		logger.Warn("Rejected url", "url", rawURL, "error", err)
		sess.SetNotice(model.NoticeWarning, NoticeInvalidURL)
		return sess, uc.saveWith(ctx, sess, err)
	}

	sess.BeginCheck(rawURL)
	meta, err := uc.extractor.ExtractInfo(ctx, rawURL)
	if err != nil {
		err = goerr.Wrap(err, "failed to fetch metadata",
			goerr.V("url", rawURL),
			goerr.V("session_id", sessionID),
			goerr.T(types.ErrTagExtraction))
		logger.Error("Metadata fetch failed", "error", err)

		sess.FailCheck()
		sess.SetNotice(model.NoticeError, NoticeCheckFailed)
		return sess, uc.saveWith(ctx, sess, err)
	}

	sess.CompleteCheck(meta)
	sess.SetNotice(model.NoticeSuccess, NoticeCheckOK)

	logger.Info("Metadata fetched",
		"url", rawURL,
		"platform", sess.Platform.ID,
		"title", meta.Title,
	)

	return sess, uc.saveWith(ctx, sess, nil)
}

func (uc *mediaUseCase) Clear(ctx context.Context, sessionID string) (*model.Session, error) {
	if !uc.acquire(sessionID) {
		sess, err := uc.Session(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return sess, busyError(sessionID)
	}
	defer uc.release(sessionID)

	sess, err := uc.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	return sess, uc.saveWith(ctx, sess, nil)
}

func (uc *mediaUseCase) TakeNotice(ctx context.Context, sessionID string) (*model.Notice, error) {
	sess, err := uc.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	notice := sess.TakeNotice()
	if notice == nil {
		return nil, nil
	}
	return notice, uc.saveWith(ctx, sess, nil)
}

func (uc *mediaUseCase) Download(ctx context.Context, sessionID string, req model.DownloadRequest, sink interfaces.ProgressSink) (*model.DeliveredFile, error) {
	logger := ctxlog.From(ctx)

	if !uc.acquire(sessionID) {
		return nil, busyError(sessionID)
	}
	defer uc.release(sessionID)

	sess, err := uc.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State == model.StateDownloading {
		// left behind by an interrupted process; this process holds no download for it
		sess.FailDownload()
	}
	if err := sess.BeginDownload(); err != nil {
		return nil, err
	}

	opts, err := model.BuildOptions(req, sess.Metadata)
	if err != nil {
		sess.FailDownload()
		return nil, uc.saveWith(ctx, sess, err)
	}
	opts.MaxFileSize = uc.maxFileSize

	if !uc.sem.TryAcquire(1) {
		sess.FailDownload()
		return nil, uc.saveWith(ctx, sess, goerr.New("too many downloads in progress",
			goerr.V("session_id", sessionID),
			goerr.T(types.ErrTagBusy)))
	}
	defer uc.sem.Release(1)

	if err := uc.store.PutSession(ctx, sess); err != nil {
		return nil, goerr.Wrap(err, "failed to save session", goerr.V("session_id", sessionID))
	}

	logger.Info("Starting download",
		"session_id", sessionID,
		"url", sess.URL,
		"kind", opts.Kind,
		"format", opts.Format,
	)

	file, info, err := uc.fetch(ctx, sess.URL, opts, sink)
	if err != nil {
		sess.FailDownload()
		return nil, uc.saveWith(ctx, sess, err)
	}

	title := sess.Metadata.DisplayTitle()
	if info != nil && info.Title != "" {
		title = info.Title
	}
	sess.CompleteDownload(model.NewHistoryEntry(title, opts.Kind, uc.now()))

	if err := uc.store.PutFile(ctx, sessionID, file); err != nil {
		return nil, goerr.Wrap(err, "failed to park file", goerr.V("session_id", sessionID))
	}
	if err := uc.store.PutSession(ctx, sess); err != nil {
		return nil, goerr.Wrap(err, "failed to save session", goerr.V("session_id", sessionID))
	}

	logger.Info("Download completed",
		"session_id", sessionID,
		"name", file.Name,
		"size_bytes", file.Size,
	)

	if uc.notifier != nil {
		ev := &model.DownloadEvent{
			SessionID: sessionID,
			URL:       sess.URL,
			Title:     title,
			Kind:      opts.Kind,
			Size:      file.Size,
			Platform:  sess.Platform,
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyDownload(ctx, ev)
		})
	}

	return file, nil
}

// fetch downloads into a fresh working directory and reads the result into
// memory. The working directory is removed before returning.
func (uc *mediaUseCase) fetch(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.DeliveredFile, *model.MediaMetadata, error) {
	logger := ctxlog.From(ctx)

	workDir, err := afero.TempDir(uc.fs, uc.workRoot, "unidl-")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create working directory",
			goerr.V("work_root", uc.workRoot),
			goerr.T(types.ErrTagDownload))
	}
	defer func() {
		if err := uc.fs.RemoveAll(workDir); err != nil {
			logger.Warn("Failed to remove working directory", "work_dir", workDir, "error", err)
		}
	}()

	result, err := uc.orchestrator.Download(ctx, url, workDir, opts, sink)
	if err != nil {
		return nil, nil, err
	}

	st, err := uc.fs.Stat(result.Path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to stat downloaded file",
			goerr.V("path", result.Path),
			goerr.T(types.ErrTagDownload))
	}
	if uc.maxFileSize > 0 && st.Size() > uc.maxFileSize {
		return nil, nil, goerr.New("downloaded file exceeds size limit",
			goerr.V("path", result.Path),
			goerr.V("size", st.Size()),
			goerr.V("limit", uc.maxFileSize),
			goerr.T(types.ErrTagTooLarge))
	}

	data, err := afero.ReadFile(uc.fs, result.Path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to read downloaded file",
			goerr.V("path", result.Path),
			goerr.T(types.ErrTagDownload))
	}

	return &model.DeliveredFile{
		Name:     filepath.Base(result.Path),
		MIMEType: opts.MIMETypeFor(result.Path),
		Size:     int64(len(data)),
		Kind:     opts.Kind,
		Data:     data,
	}, result.Info, nil
}

func (uc *mediaUseCase) TakeFile(ctx context.Context, sessionID string) (*model.DeliveredFile, error) {
	file, err := uc.store.TakeFile(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to take parked file", goerr.V("session_id", sessionID))
	}
	if file == nil {
		return nil, goerr.New("no file pending",
			goerr.V("session_id", sessionID),
			goerr.T(types.ErrTagNotFound))
	}
	return file, nil
}

func (uc *mediaUseCase) Inspect(ctx context.Context, rawURL string) (*model.Inspection, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := model.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	meta, err := uc.extractor.ExtractInfo(ctx, rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch metadata",
			goerr.V("url", rawURL),
			goerr.T(types.ErrTagExtraction))
	}

	return &model.Inspection{
		Platform: model.DetectPlatform(rawURL),
		Metadata: meta,
	}, nil
}

// saveWith persists sess and returns cause, or the save error when cause is nil
func (uc *mediaUseCase) saveWith(ctx context.Context, sess *model.Session, cause error) error {
	if err := uc.store.PutSession(ctx, sess); err != nil {
		if cause != nil {
			ctxlog.From(ctx).Error("Failed to save session", "session_id", sess.ID, "error", err)
			return cause
		}
		return goerr.Wrap(err, "failed to save session", goerr.V("session_id", sess.ID))
	}
	return cause
}

func (uc *mediaUseCase) acquire(sessionID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.inflight[sessionID]; ok {
		return false
	}
	uc.inflight[sessionID] = struct{}{}
	return true
}

func (uc *mediaUseCase) release(sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inflight, sessionID)
}

func busyError(sessionID string) error {
	return goerr.New("session has an operation in progress",
		goerr.V("session_id", sessionID),
		goerr.T(types.ErrTagBusy))
}
