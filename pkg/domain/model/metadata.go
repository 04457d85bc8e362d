package model

// MediaMetadata is the subset of the extractor's info record shown to the user
type MediaMetadata struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Uploader     string   `json:"uploader"`
	Duration     *int     `json:"duration,omitempty"` // seconds, nil when unknown
	ViewCount    int64    `json:"view_count"`
	LikeCount    int64    `json:"like_count"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	WebpageURL   string   `json:"webpage_url,omitempty"`
	Extractor    string   `json:"extractor,omitempty"`
	Ext          string   `json:"ext,omitempty"`
	Subtitles    []string `json:"subtitles,omitempty"`     // human-authored language codes
	AutoCaptions []string `json:"auto_captions,omitempty"` // auto-generated language codes
}

// SubtitleChoice is one selectable subtitle track
type SubtitleChoice struct {
	Lang string `json:"lang"`
	Auto bool   `json:"auto"`
}

// Key is the form value identifying the choice
func (c SubtitleChoice) Key() string {
	if c.Auto {
		return "auto:" + c.Lang
	}
	return c.Lang
}

// Icon distinguishes human-authored from auto-generated tracks
func (c SubtitleChoice) Icon() string {
	if c.Auto {
		return "🤖"
	}
	return "📝"
}

// SubtitleChoices lists human-authored tracks first, then auto-generated ones
func (m *MediaMetadata) SubtitleChoices() []SubtitleChoice {
	if m == nil {
		return nil
	}
	choices := make([]SubtitleChoice, 0, len(m.Subtitles)+len(m.AutoCaptions))
	for _, lang := range m.Subtitles {
		choices = append(choices, SubtitleChoice{Lang: lang})
	}
	for _, lang := range m.AutoCaptions {
		choices = append(choices, SubtitleChoice{Lang: lang, Auto: true})
	}
	return choices
}

// LookupSubtitle resolves a form key produced by SubtitleChoice.Key
func (m *MediaMetadata) LookupSubtitle(key string) (SubtitleChoice, bool) {
	for _, c := range m.SubtitleChoices() {
		if c.Key() == key {
			return c, true
		}
	}
	return SubtitleChoice{}, false
}

// DisplayTitle falls back to a placeholder for untitled media
func (m *MediaMetadata) DisplayTitle() string {
	if m == nil || m.Title == "" {
		return "Untitled"
	}
	return m.Title
}

// Inspection is the stateless answer to "what is behind this URL"
type Inspection struct {
	Platform PlatformBadge  `json:"platform"`
	Metadata *MediaMetadata `json:"metadata"`
}
