package model

import "fmt"

// VideoPreset maps a resolution tier to an extractor format selector
type VideoPreset struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selector string `json:"selector"`
}

// AudioQuality maps a quality tier to a target bitrate in kbps
type AudioQuality struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Bitrate string `json:"bitrate"`
}

// AudioFormat maps a container label to the extractor codec identifier
type AudioFormat struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Codec    string `json:"codec"`
	Ext      string `json:"ext"`
	MIMEType string `json:"mime_type"`
}

const (
	// VideoMergeFormat is the container video streams are merged into
	VideoMergeFormat = "mp4"
	// VideoMIMEType matches VideoMergeFormat
	VideoMIMEType = "video/mp4"
	// AudioSelector picks the best audio stream before transcoding
	AudioSelector = "bestaudio/best"

	DefaultVideoPreset  = "1080p"
	DefaultAudioQuality = "192"
	DefaultAudioFormat  = "mp3"
)

func heightCapped(height int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}

var videoPresets = []VideoPreset{
	{Key: "best", Label: "🌟 Best", Selector: "bestvideo+bestaudio/best"},
	{Key: "2160p", Label: "📺 4K (2160p)", Selector: heightCapped(2160)},
	{Key: "1080p", Label: "🖥️ Full HD (1080p)", Selector: heightCapped(1080)},
	{Key: "720p", Label: "📹 HD (720p)", Selector: heightCapped(720)},
	{Key: "480p", Label: "📱 SD (480p)", Selector: heightCapped(480)},
	{Key: "360p", Label: "📟 Low (360p)", Selector: heightCapped(360)},
}

var audioQualities = []AudioQuality{
	{Key: "320", Label: "🎵 320kbps (best)", Bitrate: "320"},
	{Key: "192", Label: "🎶 192kbps (recommended)", Bitrate: "192"},
	{Key: "128", Label: "🔊 128kbps (basic)", Bitrate: "128"},
}

var audioFormats = []AudioFormat{
	{Key: "mp3", Label: "MP3", Codec: "mp3", Ext: ".mp3", MIMEType: "audio/mpeg"},
	{Key: "m4a", Label: "M4A", Codec: "m4a", Ext: ".m4a", MIMEType: "audio/mp4"},
	{Key: "wav", Label: "WAV", Codec: "wav", Ext: ".wav", MIMEType: "audio/wav"},
}

// VideoPresets returns the resolution tiers in display order
func VideoPresets() []VideoPreset {
	return append([]VideoPreset(nil), videoPresets...)
}

// AudioQualities returns the audio quality tiers in display order
func AudioQualities() []AudioQuality {
	return append([]AudioQuality(nil), audioQualities...)
}

// AudioFormats returns the audio containers in display order
func AudioFormats() []AudioFormat {
	return append([]AudioFormat(nil), audioFormats...)
}

// LookupVideoPreset finds a resolution tier by key
func LookupVideoPreset(key string) (VideoPreset, bool) {
	for _, p := range videoPresets {
		if p.Key == key {
			return p, true
		}
	}
	return VideoPreset{}, false
}

// LookupAudioQuality finds an audio quality tier by key
func LookupAudioQuality(key string) (AudioQuality, bool) {
	for _, q := range audioQualities {
		if q.Key == key {
			return q, true
		}
	}
	return AudioQuality{}, false
}

// LookupAudioFormat finds an audio container by key
func LookupAudioFormat(key string) (AudioFormat, bool) {
	for _, f := range audioFormats {
		if f.Key == key {
			return f, true
		}
	}
	return AudioFormat{}, false
}
