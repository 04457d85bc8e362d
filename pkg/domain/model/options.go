package model

import (
	"path/filepath"
	"strings"
)

// MediaKind is the type of media requested by the user
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// Icon is the history marker for the kind
func (k MediaKind) Icon() string {
	if k == MediaKindAudio {
		return "🎵"
	}
	return "🎬"
}

// Extensions lists file extensions a finished download of this kind is expected to have
func (k MediaKind) Extensions() []string {
	if k == MediaKindAudio {
		return []string{".mp3", ".m4a", ".wav", ".ogg"}
	}
	return []string{".mp4", ".mkv", ".webm", ".mov"}
}

// HasExtension reports whether name carries one of the kind's extensions
func (k MediaKind) HasExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range k.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// DownloadRequest carries the user's option keys. It never carries a URL: the
// session-held URL is always used.
type DownloadRequest struct {
	Kind         MediaKind
	VideoPreset  string
	SubtitleKey  string
	AudioFormat  string
	AudioQuality string
}

// AudioOptions configures audio extraction
type AudioOptions struct {
	Codec    string
	Bitrate  string
	Ext      string
	MIMEType string
}

// DownloadOptions is the extractor configuration for one download
type DownloadOptions struct {
	Kind           MediaKind
	Format         string
	MergeFormat    string
	Audio          *AudioOptions
	Subtitle       *SubtitleChoice
	SingleItem     bool
	OutputTemplate string
	MaxFileSize    int64
}

// MIMETypeFor derives the MIME type delivered with the file at path
func (o DownloadOptions) MIMETypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if o.Audio != nil && ext == o.Audio.Ext {
		return o.Audio.MIMEType
	}
	if mt, ok := extensionMIMETypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

var extensionMIMETypes = map[string]string{
	".mp4":  VideoMIMEType,
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
}

// OutputTemplate names files from the media title and extension
const OutputTemplate = "%(title)s.%(ext)s"
