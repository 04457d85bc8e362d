package http

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

type subtitleOption struct {
	Key   string
	Label string
}

// pageView is everything templates/index.html reads
type pageView struct {
	L         *i18n.Localizer
	Notice    *model.Notice
	URL       string
	Platform  model.PlatformBadge
	Meta      *model.MediaMetadata
	Duration  string
	Views     string
	Likes     string
	Uploader  string
	Subtitles []subtitleOption
	History   []model.HistoryEntry
	Platforms template.HTML
	Known     []model.PlatformBadge

	VideoPresets   []model.VideoPreset
	AudioFormats   []model.AudioFormat
	AudioQualities []model.AudioQuality
	DefaultVideo   string
	DefaultFormat  string
	DefaultQuality string
}

// pageRenderer owns the parsed page template and the rendered blurbs
type pageRenderer struct {
	tmpl      *template.Template
	platforms map[string]template.HTML
	fallback  string
}

func newPageRenderer(bundle *i18n.Bundle) (*pageRenderer, error) {
	tmpl, err := template.ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page template")
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.Typographer),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	platforms := make(map[string]template.HTML)
	for _, tag := range bundle.Languages() {
		lang := tag.String()
		src, err := assets.ReadFile("content/platforms." + lang + ".md")
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, goerr.Wrap(err, "failed to render platforms blurb", goerr.V("lang", lang))
		}
		// embedded markdown; goldmark drops raw HTML by default
		platforms[lang] = template.HTML(buf.String())
	}

	fallback := bundle.Languages()[0].String()
	if _, ok := platforms[fallback]; !ok {
		return nil, goerr.New("no platforms blurb for default language", goerr.V("lang", fallback))
	}

	return &pageRenderer{
		tmpl:      tmpl,
		platforms: platforms,
		fallback:  fallback,
	}, nil
}

func (p *pageRenderer) render(w io.Writer, l *i18n.Localizer, sess *model.Session, notice *model.Notice) error {
	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	blurb, ok := p.platforms[l.Lang()]
	if !ok {
		blurb = p.platforms[p.fallback]
	}

	unknown := l.T("card.unknown")
	view := pageView{
		L:         l,
		Notice:    notice,
		URL:       sess.URL,
		Platform:  sess.Platform,
		Meta:      sess.Metadata,
		History:   sess.History.Recent(model.HistoryDisplayLimit),
		Platforms: blurb,
		Known:     model.KnownPlatforms(),

		VideoPresets:   model.VideoPresets(),
		AudioFormats:   model.AudioFormats(),
		AudioQualities: model.AudioQualities(),
		DefaultVideo:   model.DefaultVideoPreset,
		DefaultFormat:  model.DefaultAudioFormat,
		DefaultQuality: model.DefaultAudioQuality,
	}

	if m := sess.Metadata; m != nil {
		view.Duration = humanize.Duration(m.Duration, unknown)
		view.Views = l.Number(m.ViewCount)
		view.Likes = l.Number(m.LikeCount)
		view.Uploader = m.Uploader
		if strings.TrimSpace(view.Uploader) == "" {
			view.Uploader = unknown
		}
		for _, c := range m.SubtitleChoices() {
			label := c.Icon() + " " + c.Lang
			if c.Auto {
				label += " " + l.T("video.auto")
			}
			view.Subtitles = append(view.Subtitles, subtitleOption{Key: c.Key(), Label: label})
		}
	}

	if err := p.tmpl.Execute(w, view); err != nil {
		return goerr.Wrap(err, "failed to execute page template")
	}
	return nil
}
