package ytdlp

import (
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
)

// progressSample is the subset of a go-ytdlp progress update used for display
type progressSample struct {
	Status     string
	Downloaded int
	Total      int
	Started    time.Time
	ETA        time.Duration
	Filename   string
}

func sampleOf(u ytdlp.ProgressUpdate) progressSample {
	return progressSample{
		Status:     string(u.Status),
		Downloaded: u.DownloadedBytes,
		Total:      u.TotalBytes,
		Started:    u.Started,
		ETA:        u.ETA(),
		Filename:   u.Filename,
	}
}

// toEvent renders a sample as display strings. Unknown values are left empty.
// Error updates yield no event: the failure is returned by Run.
func (s progressSample) toEvent(now time.Time) (model.ProgressEvent, bool) {
	ev := model.ProgressEvent{
		Status:   model.ProgressDownloading,
		Filename: s.Filename,
	}

	switch s.Status {
	case "error":
		return model.ProgressEvent{}, false
	case "finished":
		ev.Status = model.ProgressFinished
		return ev, true
	case "post_processing", "processing":
		ev.Status = model.ProgressProcessing
		return ev, true
	}

	if s.Total > 0 {
		ev.Percent = fmt.Sprintf("%.1f%%", float64(s.Downloaded)/float64(s.Total)*100)
	}
	if !s.Started.IsZero() {
		if elapsed := now.Sub(s.Started).Seconds(); elapsed > 0 {
			if bps := int64(float64(s.Downloaded) / elapsed); bps > 0 {
				ev.Speed = humanize.FileSize(bps, "") + "/s"
			}
		}
	}
	if s.ETA > 0 {
		ev.ETA = formatETA(s.ETA)
	}
	return ev, true
}

func formatETA(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
