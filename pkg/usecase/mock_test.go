package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/spf13/afero"
)

// mockExtractor is a hand-written Extractor with pluggable behavior
type mockExtractor struct {
	extractInfoFunc func(ctx context.Context, url string) (*model.MediaMetadata, error)
	downloadFunc    func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error)

	mu            sync.Mutex
	downloadCalls []model.DownloadOptions
}

func (m *mockExtractor) ExtractInfo(ctx context.Context, url string) (*model.MediaMetadata, error) {
	if m.extractInfoFunc != nil {
		return m.extractInfoFunc(ctx, url)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockExtractor) Download(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
	m.mu.Lock()
	m.downloadCalls = append(m.downloadCalls, opts)
	m.mu.Unlock()

	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, url, opts, sink)
	}
	return nil, errors.New("mock not configured")
}

// writeOutput emulates the extractor writing name into the output directory
// and reporting progress for it
func writeOutput(fs afero.Fs, opts model.DownloadOptions, sink interfaces.ProgressSink, name string, data []byte) (string, error) {
	path := filepath.Join(filepath.Dir(opts.OutputTemplate), name)
	sink.OnProgress(model.ProgressEvent{Status: model.ProgressDownloading, Percent: "50.0%", Speed: "1MiB/s", ETA: "00:01"})
	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return "", err
	}
	sink.OnProgress(model.ProgressEvent{Status: model.ProgressFinished, Filename: path})
	return path, nil
}

type mockNotifier struct {
	ch chan *model.DownloadEvent
}

func (m *mockNotifier) NotifyDownload(ctx context.Context, ev *model.DownloadEvent) error {
	m.ch <- ev
	return nil
}

type recordingSink struct {
	events []model.ProgressEvent
}

func (s *recordingSink) OnProgress(ev model.ProgressEvent) {
	s.events = append(s.events, ev)
}
