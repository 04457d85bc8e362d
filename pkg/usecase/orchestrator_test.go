package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/spf13/afero"
)

const workDir = "/work/unidl-1"

func newWorkFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	gt.NoError(t, fs.MkdirAll(workDir, 0700))
	return fs
}

func TestOrchestrator_FinishedPathUsed(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			// an unrelated file sorting first must not win over the reported path
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "A.mp4"), []byte("x"), 0600))
			_, err := writeOutput(fs, opts, sink, "T.mp4", []byte("video"))
			return &model.MediaMetadata{Title: "T"}, err
		},
	}

	sink := &recordingSink{}
	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindVideo}, sink)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.mp4"))
	gt.Equal(t, result.Info.Title, "T")
	gt.A(t, sink.events).Length(2)

	gt.A(t, ext.downloadCalls).Length(1)
	gt.True(t, ext.downloadCalls[0].SingleItem)
	gt.Equal(t, ext.downloadCalls[0].OutputTemplate, filepath.Join(workDir, "%(title)s.%(ext)s"))
}

func TestOrchestrator_ScanWhenFinishedPathDeleted(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			// the reported fragment is merged into another file and removed
			fragment, err := writeOutput(fs, opts, sink, "T.f137.mp4", []byte("v"))
			gt.NoError(t, err)
			gt.NoError(t, fs.Remove(fragment))
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.info.part"), []byte("p"), 0600))
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.en.vtt"), []byte("s"), 0600))
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.mp4"), []byte("video"), 0600))
			return nil, nil
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindVideo}, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.mp4"))
}

func TestOrchestrator_AudioSkipsIntermediateStream(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			// the finished event names the raw stream; extraction writes the mp3 next to it
			_, err := writeOutput(fs, opts, sink, "T.webm", []byte("stream"))
			gt.NoError(t, err)
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.mp3"), []byte("audio"), 0600))
			return &model.MediaMetadata{Title: "T"}, nil
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindAudio}, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.mp3"))
}

func TestOrchestrator_HintWithoutKindMatchUsed(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "A.flac"), []byte("x"), 0600))
			_, err := writeOutput(fs, opts, sink, "T.opus", []byte("audio"))
			return nil, err
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindAudio}, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.opus"))
}

func TestOrchestrator_HintOutsideWorkDirIgnored(t *testing.T) {
	fs := newWorkFs(t)
	gt.NoError(t, afero.WriteFile(fs, "/etc/secret.mp3", []byte("no"), 0600))

	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.mp3"), []byte("audio"), 0600))
			sink.OnProgress(model.ProgressEvent{Status: model.ProgressFinished, Filename: "/etc/secret.mp3"})
			return nil, nil
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindAudio}, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.mp3"))
}

func TestOrchestrator_FallbackToAnyRegularFile(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			gt.NoError(t, fs.MkdirAll(filepath.Join(workDir, "sub"), 0700))
			gt.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "T.flac"), []byte("audio"), 0600))
			return nil, nil
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	result, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindAudio}, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Path, filepath.Join(workDir, "T.flac"))
}

func TestOrchestrator_NoOutput(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			return nil, afero.WriteFile(fs, filepath.Join(workDir, "T.mp4.part"), []byte("p"), 0600)
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	_, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindVideo}, nil)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagDownload))
}

func TestOrchestrator_ExtractorFailure(t *testing.T) {
	fs := newWorkFs(t)
	ext := &mockExtractor{
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			return nil, errors.New("HTTP Error 403")
		},
	}

	o := usecase.NewOrchestrator(ext, fs)
	_, err := o.Download(context.Background(), "https://youtu.be/x", workDir,
		model.DownloadOptions{Kind: model.MediaKindVideo}, nil)
	gt.True(t, goerr.HasTag(err, types.ErrTagDownload))
}
