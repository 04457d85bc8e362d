package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
)

var (
	titleColor = color.New(color.FgHiWhite, color.Bold)
	labelColor = color.New(color.FgCyan)
	dimColor   = color.New(color.FgHiBlack)
	okColor    = color.New(color.FgGreen, color.Bold)
)

// printCard writes the metadata card shown after a check
func printCard(w io.Writer, l *i18n.Localizer, ins *model.Inspection) {
	meta := ins.Metadata
	unknown := l.T("card.unknown")

	fmt.Fprintf(w, "%s %s\n", ins.Platform.Icon, dimColor.Sprint(ins.Platform.Name))
	titleColor.Fprintln(w, meta.DisplayTitle())

	uploader := meta.Uploader
	if uploader == "" {
		uploader = unknown
	}
	fmt.Fprintf(w, "%s: %s\n", labelColor.Sprint(l.T("card.uploader")), uploader)
	fmt.Fprintf(w, "%s: %s\n", labelColor.Sprint(l.T("card.duration")), humanize.Duration(meta.Duration, unknown))
	fmt.Fprintf(w, "%s: %s\n", labelColor.Sprint(l.T("card.views")), l.Number(meta.ViewCount))
	fmt.Fprintf(w, "%s: %s\n", labelColor.Sprint(l.T("card.likes")), l.Number(meta.LikeCount))

	choices := meta.SubtitleChoices()
	if len(choices) == 0 {
		dimColor.Fprintln(w, l.T("video.no_subtitles"))
		return
	}
	keys := make([]string, 0, len(choices))
	for _, c := range choices {
		keys = append(keys, c.Icon()+" "+c.Key())
	}
	fmt.Fprintf(w, "%s: %s\n", labelColor.Sprint(l.T("video.subtitle_lang")), strings.Join(keys, ", "))
}

// termProgress renders progress events on a single rewritten terminal line
type termProgress struct {
	w    io.Writer
	l    *i18n.Localizer
	view model.ProgressView
}

func (p *termProgress) OnProgress(ev model.ProgressEvent) {
	p.view.Apply(ev)

	switch p.view.Status {
	case model.ProgressFinished:
		fmt.Fprintf(p.w, "\r\033[K%s", p.l.T("progress.finished"))
	case model.ProgressProcessing:
		fmt.Fprintf(p.w, "\r\033[K%s", p.l.T("progress.processing"))
	default:
		fmt.Fprintf(p.w, "\r\033[K%s | %s | %s",
			p.l.T("progress.downloading", p.view.Percent),
			p.l.T("progress.speed", p.view.Speed),
			p.l.T("progress.eta", p.view.ETA),
		)
	}
}

// done terminates the progress line
func (p *termProgress) done() {
	fmt.Fprintln(p.w)
}
