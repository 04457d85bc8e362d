package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
)

// sseStream writes text/event-stream frames and flushes each one
type sseStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEStream(w http.ResponseWriter) *sseStream {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &sseStream{w: w, rc: http.NewResponseController(w)}
}

// send writes one event. Errors mean the client is gone; the request context
// is canceled then and the download stops on its own.
func (s *sseStream) send(event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return goerr.Wrap(err, "failed to encode event", goerr.V("event", event))
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, raw); err != nil {
		return goerr.Wrap(err, "failed to write event", goerr.V("event", event))
	}
	if err := s.rc.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush event", goerr.V("event", event))
	}
	return nil
}

type progressPayload struct {
	Status   model.ProgressStatus `json:"status"`
	Percent  string               `json:"percent"`
	Fraction float64              `json:"fraction"`
	Speed    string               `json:"speed"`
	ETA      string               `json:"eta"`
	Label    string               `json:"label"`
}

type donePayload struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	SizeText string `json:"size_text"`
	Message  string `json:"message"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// sseProgressSink folds extractor events into a ProgressView and streams it
type sseProgressSink struct {
	stream *sseStream
	l      *i18n.Localizer
	view   model.ProgressView
}

func (s *sseProgressSink) OnProgress(ev model.ProgressEvent) {
	s.view.Apply(ev)

	var label string
	switch s.view.Status {
	case model.ProgressFinished:
		label = s.l.T("progress.finished")
	case model.ProgressProcessing:
		label = s.l.T("progress.processing")
	default:
		label = s.l.T("progress.downloading", s.view.Percent)
	}

	_ = s.stream.send("progress", progressPayload{
		Status:   s.view.Status,
		Percent:  s.view.Percent,
		Fraction: s.view.Fraction,
		Speed:    s.view.Speed,
		ETA:      s.view.ETA,
		Label:    label,
	})
}
