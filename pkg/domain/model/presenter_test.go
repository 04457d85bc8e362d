package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

func TestBuildOptions_Video(t *testing.T) {
	meta := &model.MediaMetadata{Title: "T", Subtitles: []string{"en"}, AutoCaptions: []string{"fr"}}

	t.Run("default preset", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo}, meta)
		gt.NoError(t, err)
		gt.Equal(t, opts.Format, "bestvideo[height<=1080]+bestaudio/best[height<=1080]")
		gt.Equal(t, opts.MergeFormat, "mp4")
		gt.Value(t, opts.Subtitle).Nil()
		gt.Value(t, opts.Audio).Nil()
	})

	t.Run("720p", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, VideoPreset: "720p"}, meta)
		gt.NoError(t, err)
		gt.Equal(t, opts.Format, "bestvideo[height<=720]+bestaudio/best[height<=720]")
	})

	t.Run("best", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, VideoPreset: "best"}, meta)
		gt.NoError(t, err)
		gt.Equal(t, opts.Format, "bestvideo+bestaudio/best")
	})

	t.Run("human subtitle", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, SubtitleKey: "en"}, meta)
		gt.NoError(t, err)
		gt.V(t, opts.Subtitle).NotNil()
		gt.Equal(t, *opts.Subtitle, model.SubtitleChoice{Lang: "en"})
	})

	t.Run("auto caption", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, SubtitleKey: "auto:fr"}, meta)
		gt.NoError(t, err)
		gt.Equal(t, *opts.Subtitle, model.SubtitleChoice{Lang: "fr", Auto: true})
	})

	t.Run("subtitle not offered", func(t *testing.T) {
		_, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, SubtitleKey: "de"}, meta)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindVideo, VideoPreset: "8k"}, meta)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
	})
}

func TestBuildOptions_Audio(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindAudio}, nil)
		gt.NoError(t, err)
		gt.Equal(t, opts.Format, "bestaudio/best")
		gt.Equal(t, opts.MergeFormat, "")
		gt.Equal(t, *opts.Audio, model.AudioOptions{Codec: "mp3", Bitrate: "192", Ext: ".mp3", MIMEType: "audio/mpeg"})
	})

	t.Run("m4a 320", func(t *testing.T) {
		opts, err := model.BuildOptions(model.DownloadRequest{
			Kind: model.MediaKindAudio, AudioFormat: "m4a", AudioQuality: "320",
		}, nil)
		gt.NoError(t, err)
		gt.Equal(t, opts.Audio.Codec, "m4a")
		gt.Equal(t, opts.Audio.Bitrate, "320")
		gt.Equal(t, opts.Audio.MIMEType, "audio/mp4")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindAudio, AudioFormat: "flac"}, nil)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
	})

	t.Run("unknown quality", func(t *testing.T) {
		_, err := model.BuildOptions(model.DownloadRequest{Kind: model.MediaKindAudio, AudioQuality: "64"}, nil)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
	})
}

func TestBuildOptions_UnknownKind(t *testing.T) {
	_, err := model.BuildOptions(model.DownloadRequest{Kind: "image"}, nil)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidInput))
}

func TestDownloadOptions_MIMETypeFor(t *testing.T) {
	opts := model.DownloadOptions{}
	gt.Equal(t, opts.MIMETypeFor("/tmp/x/T.mp4"), "video/mp4")
	gt.Equal(t, opts.MIMETypeFor("/tmp/x/T.MP3"), "audio/mpeg")
	gt.Equal(t, opts.MIMETypeFor("/tmp/x/T.bin"), "application/octet-stream")
}
