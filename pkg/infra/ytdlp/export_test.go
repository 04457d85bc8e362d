package ytdlp

import (
	"time"

	"github.com/m-mizutani/unidl/pkg/domain/model"
)

var (
	DecodeInfo      = decodeInfo
	DecodeInfoLines = decodeInfoLines
	FormatETA       = formatETA
)

// ProgressEventOf exposes the update conversion without a running yt-dlp
func ProgressEventOf(status string, downloaded, total int, started time.Time, eta time.Duration, filename string, now time.Time) (model.ProgressEvent, bool) {
	return progressSample{
		Status:     status,
		Downloaded: downloaded,
		Total:      total,
		Started:    started,
		ETA:        eta,
		Filename:   filename,
	}.toEvent(now)
}
