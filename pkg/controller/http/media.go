package http

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
)

// maxFormBytes bounds the url/options forms
const maxFormBytes = 64 << 10

// MediaHandler serves the check/download page flow and the metadata API
type MediaHandler struct {
	uc     interfaces.MediaUseCase
	bundle *i18n.Bundle
	page   *pageRenderer
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(uc interfaces.MediaUseCase, bundle *i18n.Bundle, page *pageRenderer) *MediaHandler {
	return &MediaHandler{
		uc:     uc,
		bundle: bundle,
		page:   page,
	}
}

func (h *MediaHandler) localizer(r *http.Request) *i18n.Localizer {
	return h.bundle.Localizer(r.Header.Get("Accept-Language"))
}

// HandlePage renders the page for the caller's session
func (h *MediaHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionIDFrom(ctx)

	sess, err := h.uc.Session(ctx, sid)
	if err != nil {
		logError(r, "Failed to load session", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	notice, err := h.uc.TakeNotice(ctx, sid)
	if err != nil {
		logError(r, "Failed to take notice", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	if err := h.page.render(w, h.localizer(r), sess, notice); err != nil {
		ctxlog.From(ctx).Error("Failed to render page", "error", err)
	}
}

// HandleCheck fetches metadata for the submitted url. Failures are reported
// through the session notice on the next page render.
func (h *MediaHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, goerr.Wrap(err, "failed to parse form"), http.StatusBadRequest)
		return
	}

	if _, err := h.uc.Check(r.Context(), sessionIDFrom(r.Context()), r.PostFormValue("url")); err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			logError(r, "Check failed", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleClear resets the session's url and metadata
func (h *MediaHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if _, err := h.uc.Clear(r.Context(), sessionIDFrom(r.Context())); err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			logError(r, "Clear failed", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDownload streams progress as server-sent events and ends with exactly
// one "done" or "error" event
func (h *MediaHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, goerr.Wrap(err, "failed to parse form"), http.StatusBadRequest)
		return
	}

	req := model.DownloadRequest{Kind: model.MediaKind(chi.URLParam(r, "kind"))}
	switch req.Kind {
	case model.MediaKindVideo:
		req.VideoPreset = r.PostFormValue("preset")
		req.SubtitleKey = r.PostFormValue("subtitle")
	case model.MediaKindAudio:
		req.AudioFormat = r.PostFormValue("format")
		req.AudioQuality = r.PostFormValue("quality")
	default:
		writeError(w, goerr.New("unknown media kind", goerr.V("kind", req.Kind), goerr.T(types.ErrTagInvalidInput)), http.StatusNotFound)
		return
	}

	l := h.localizer(r)
	stream := newSSEStream(w)
	sink := &sseProgressSink{stream: stream, l: l}

	file, err := h.uc.Download(ctx, sessionIDFrom(ctx), req, sink)
	if err != nil {
		logError(r, "Download failed", err)
		_ = stream.send("error", errorPayload{Message: l.T(messageIDOf(err))})
		return
	}

	sizeText := humanize.FileSize(file.Size, l.T("card.unknown"))
	_ = stream.send("done", donePayload{
		URL:      "/file",
		Name:     file.Name,
		Size:     file.Size,
		SizeText: l.T("done.size", sizeText),
		Message:  l.T("done.success"),
	})
}

// HandleFile delivers the parked file once
func (h *MediaHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.uc.TakeFile(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		status := statusOf(err)
		logError(r, "File retrieval failed", err)
		writeError(w, err, status)
		return
	}

	w.Header().Set("Content-Type", file.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(file.Data)), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to write file", "error", err, "name", file.Name)
	}
}

// HandleMetadata answers GET /api/v1/metadata?url=
func (h *MediaHandler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	info, err := h.uc.Inspect(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		logError(r, "Metadata request failed", err)
		writeError(w, err, statusOf(err))
		return
	}

	writeJSON(w, info, http.StatusOK)
}

type presetsResponse struct {
	Video          []model.VideoPreset  `json:"video"`
	AudioFormats   []model.AudioFormat  `json:"audio_formats"`
	AudioQualities []model.AudioQuality `json:"audio_qualities"`
	Defaults       presetDefaults       `json:"defaults"`
}

type presetDefaults struct {
	Video        string `json:"video"`
	AudioFormat  string `json:"audio_format"`
	AudioQuality string `json:"audio_quality"`
}

// handlePresets answers GET /api/v1/presets
func handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, presetsResponse{
		Video:          model.VideoPresets(),
		AudioFormats:   model.AudioFormats(),
		AudioQualities: model.AudioQualities(),
		Defaults: presetDefaults{
			Video:        model.DefaultVideoPreset,
			AudioFormat:  model.DefaultAudioFormat,
			AudioQuality: model.DefaultAudioQuality,
		},
	}, http.StatusOK)
}
