package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/spf13/afero"
)

// partialSuffixes mark extractor artifacts that are never a final output
var partialSuffixes = []string{".part", ".ytdl", ".temp"}

// Orchestrator runs the extractor in download mode inside a working directory
// and locates the file it produced
type Orchestrator struct {
	extractor interfaces.Extractor
	fs        afero.Fs
}

// NewOrchestrator creates an Orchestrator resolving files on fs
func NewOrchestrator(extractor interfaces.Extractor, fs afero.Fs) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		fs:        fs,
	}
}

// finishTracker forwards progress and remembers the last finished filename
type finishTracker struct {
	next     interfaces.ProgressSink
	finished string
}

func (t *finishTracker) OnProgress(ev model.ProgressEvent) {
	if ev.Status == model.ProgressFinished && ev.Filename != "" {
		t.finished = ev.Filename
	}
	if t.next != nil {
		t.next.OnProgress(ev)
	}
}

// Download fetches url into workDir. Playlists are always disabled. The caller
// owns workDir and must remove it.
func (o *Orchestrator) Download(ctx context.Context, url, workDir string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.DownloadResult, error) {
	logger := ctxlog.From(ctx)

	opts.SingleItem = true
	opts.OutputTemplate = filepath.Join(workDir, model.OutputTemplate)

	tracker := &finishTracker{next: sink}
	info, err := o.extractor.Download(ctx, url, opts, tracker)
	if err != nil {
		return nil, goerr.Wrap(err, "extractor download failed",
			goerr.V("url", url),
			goerr.V("kind", opts.Kind),
			goerr.T(types.ErrTagDownload))
	}

	path, err := o.resolve(workDir, tracker.finished, opts.Kind)
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolved downloaded file",
		"path", path,
		"finished_hint", tracker.finished,
	)

	return &model.DownloadResult{
		Path: path,
		Info: info,
	}, nil
}

// resolve locates the produced file. The hinted path is used when it is a
// regular file inside workDir carrying one of the kind's extensions, or when
// no file in workDir does. Otherwise workDir is scanned, preferring files with
// the kind's extensions, so an untranscoded stream left next to an extracted
// audio file is skipped.
func (o *Orchestrator) resolve(workDir, hint string, kind model.MediaKind) (string, error) {
	entries, err := afero.ReadDir(o.fs, workDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to scan working directory",
			goerr.V("work_dir", workDir),
			goerr.T(types.ErrTagDownload))
	}

	var matched, fallback string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Mode().IsRegular() || isPartial(name) {
			continue
		}
		path := filepath.Join(workDir, name)
		if matched == "" && kind.HasExtension(name) {
			matched = path
		}
		if fallback == "" {
			fallback = path
		}
	}

	if hinted, ok := o.hinted(workDir, hint); ok {
		if kind.HasExtension(hinted) || matched == "" {
			return hinted, nil
		}
	}

	switch {
	case matched != "":
		return matched, nil
	case fallback != "":
		return fallback, nil
	}
	return "", goerr.New("no output file produced",
		goerr.V("work_dir", workDir),
		goerr.T(types.ErrTagDownload))
}

// hinted reports the finished path when it is a regular file inside workDir
func (o *Orchestrator) hinted(workDir, hint string) (string, bool) {
	if hint == "" {
		return "", false
	}
	if !filepath.IsAbs(hint) {
		hint = filepath.Join(workDir, hint)
	}
	if !isWithin(workDir, hint) {
		return "", false
	}
	st, err := o.fs.Stat(hint)
	if err != nil || !st.Mode().IsRegular() {
		return "", false
	}
	return filepath.Clean(hint), true
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
