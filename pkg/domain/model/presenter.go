package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

// BuildOptions turns the user's option keys into an extractor configuration.
// Subtitle keys are resolved against meta so that only tracks of the displayed
// media can be requested.
func BuildOptions(req DownloadRequest, meta *MediaMetadata) (DownloadOptions, error) {
	switch req.Kind {
	case MediaKindVideo:
		key := req.VideoPreset
		if key == "" {
			key = DefaultVideoPreset
		}
		preset, ok := LookupVideoPreset(key)
		if !ok {
			return DownloadOptions{}, goerr.New("unknown video preset",
				goerr.V("preset", req.VideoPreset), goerr.T(types.ErrTagInvalidInput))
		}

		opts := DownloadOptions{
			Kind:        MediaKindVideo,
			Format:      preset.Selector,
			MergeFormat: VideoMergeFormat,
		}

		if req.SubtitleKey != "" {
			choice, ok := meta.LookupSubtitle(req.SubtitleKey)
			if !ok {
				return DownloadOptions{}, goerr.New("subtitle track not available",
					goerr.V("subtitle", req.SubtitleKey), goerr.T(types.ErrTagInvalidInput))
			}
			opts.Subtitle = &choice
		}
		return opts, nil

	case MediaKindAudio:
		fmtKey, qKey := req.AudioFormat, req.AudioQuality
		if fmtKey == "" {
			fmtKey = DefaultAudioFormat
		}
		if qKey == "" {
			qKey = DefaultAudioQuality
		}
		format, ok := LookupAudioFormat(fmtKey)
		if !ok {
			return DownloadOptions{}, goerr.New("unknown audio format",
				goerr.V("format", req.AudioFormat), goerr.T(types.ErrTagInvalidInput))
		}
		quality, ok := LookupAudioQuality(qKey)
		if !ok {
			return DownloadOptions{}, goerr.New("unknown audio quality",
				goerr.V("quality", req.AudioQuality), goerr.T(types.ErrTagInvalidInput))
		}

		return DownloadOptions{
			Kind:   MediaKindAudio,
			Format: AudioSelector,
			Audio: &AudioOptions{
				Codec:    format.Codec,
				Bitrate:  quality.Bitrate,
				Ext:      format.Ext,
				MIMEType: format.MIMEType,
			},
		}, nil

	default:
		return DownloadOptions{}, goerr.New("unknown media kind",
			goerr.V("kind", req.Kind), goerr.T(types.ErrTagInvalidInput))
	}
}
