package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/unidl/pkg/controller/http"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/infra/store"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
	"github.com/spf13/afero"
)

const testURL = "https://www.youtube.com/watch?v=abc"

type mockExtractor struct {
	extractInfoFunc func(ctx context.Context, url string) (*model.MediaMetadata, error)
	downloadFunc    func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error)
}

func (m *mockExtractor) ExtractInfo(ctx context.Context, url string) (*model.MediaMetadata, error) {
	if m.extractInfoFunc != nil {
		return m.extractInfoFunc(ctx, url)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockExtractor) Download(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, url, opts, sink)
	}
	return nil, errors.New("mock not configured")
}

var testFs afero.Fs

func newTestUseCase(t *testing.T, ext interfaces.Extractor) interfaces.MediaUseCase {
	testFs = afero.NewMemMapFs()
	gt.NoError(t, testFs.MkdirAll("/work", 0700))
	return usecase.NewMedia(ext, store.NewMemory(time.Hour),
		usecase.WithFileSystem(testFs),
		usecase.WithWorkRoot("/work"),
	)
}

func intPtr(v int) *int {
	return &v
}

func workingExtractor() *mockExtractor {
	return &mockExtractor{
		extractInfoFunc: func(ctx context.Context, url string) (*model.MediaMetadata, error) {
			return &model.MediaMetadata{
				Title:        "T",
				Uploader:     "someone",
				Duration:     intPtr(125),
				ViewCount:    1234567,
				Subtitles:    []string{"en"},
				AutoCaptions: []string{"fr"},
			}, nil
		},
		downloadFunc: func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
			path := filepath.Join(filepath.Dir(opts.OutputTemplate), "T.mp4")
			sink.OnProgress(model.ProgressEvent{Status: model.ProgressDownloading, Percent: "50.0%", Speed: "1.0 MB/s", ETA: "00:01"})
			sink.OnProgress(model.ProgressEvent{Status: model.ProgressDownloading, Percent: "garbage"})
			if err := afero.WriteFile(testFs, path, []byte("media-bytes"), 0600); err != nil {
				return nil, err
			}
			sink.OnProgress(model.ProgressEvent{Status: model.ProgressFinished, Filename: path})
			return &model.MediaMetadata{Title: "T"}, nil
		},
	}
}

// testClient keeps the session cookie between requests
type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
	lang   string
}

func newTestClient(t *testing.T, ext interfaces.Extractor, opts ...controller.Option) *testClient {
	server, err := controller.NewServer(context.Background(), newTestUseCase(t, ext), opts...)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	gt.NoError(t, err)

	return &testClient{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, form url.Values) (*http.Response, string) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	gt.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}

	resp, err := c.client.Do(req)
	gt.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	gt.NoError(c.t, err)
	return resp, string(raw)
}

type sseEvent struct {
	Event string
	Data  map[string]any
}

func parseSSE(t *testing.T, body string) []sseEvent {
	var events []sseEvent
	for _, frame := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(frame) == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(frame, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.Event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				gt.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev.Data))
			}
		}
		events = append(events, ev)
	}
	return events
}

func countEvents(events []sseEvent, name string) int {
	n := 0
	for _, ev := range events {
		if ev.Event == name {
			n++
		}
	}
	return n
}

func TestMediaHandler_FullFlow(t *testing.T) {
	c := newTestClient(t, workingExtractor())

	resp, body := c.do(http.MethodPost, "/check", url.Values{"url": {testURL}})
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.True(t, strings.Contains(body, "T"))
	gt.True(t, strings.Contains(body, "2:05"))
	gt.True(t, strings.Contains(body, "1,234,567"))
	gt.True(t, strings.Contains(body, "YouTube"))
	gt.True(t, strings.Contains(body, `value="auto:fr"`))
	gt.Equal(t, strings.Count(body, `class="notice success"`), 1)

	resp, body = c.do(http.MethodPost, "/download/video", url.Values{"preset": {"720p"}, "subtitle": {"en"}})
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := parseSSE(t, body)
	gt.Equal(t, countEvents(events, "progress"), 3)
	gt.Equal(t, countEvents(events, "done"), 1)
	gt.Equal(t, countEvents(events, "error"), 0)
	gt.Equal(t, events[0].Data["fraction"], 0.5)
	// malformed percent keeps the previous fraction
	gt.Equal(t, events[1].Data["fraction"], 0.5)
	gt.Equal(t, events[1].Data["speed"], "N/A")

	done := events[len(events)-1]
	gt.Equal(t, done.Event, "done")
	gt.Equal(t, done.Data["name"], "T.mp4")
	gt.Equal(t, done.Data["url"], "/file")
	gt.Equal(t, done.Data["size_text"], "📁 File size: 11.0 B")

	resp, body = c.do(http.MethodGet, "/file", nil)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, body, "media-bytes")
	gt.Equal(t, resp.Header.Get("Content-Type"), "video/mp4")
	gt.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment"))

	resp, _ = c.do(http.MethodGet, "/file", nil)
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)

	_, body = c.do(http.MethodGet, "/", nil)
	gt.True(t, strings.Contains(body, "🎬 T..."))

	_, body = c.do(http.MethodPost, "/clear", url.Values{})
	gt.False(t, strings.Contains(body, "2:05"))
	gt.True(t, strings.Contains(body, "🎬 T..."))
}

func TestMediaHandler_CheckFailureShowsOneNotice(t *testing.T) {
	ext := workingExtractor()
	c := newTestClient(t, ext)

	_, _ = c.do(http.MethodPost, "/check", url.Values{"url": {testURL}})

	ext.extractInfoFunc = func(ctx context.Context, url string) (*model.MediaMetadata, error) {
		return nil, errors.New("ERROR: Unsupported URL")
	}
	resp, body := c.do(http.MethodPost, "/check", url.Values{"url": {"https://example.org/x"}})
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, strings.Count(body, `class="notice`), 1)
	gt.Equal(t, strings.Count(body, `class="notice error"`), 1)
	gt.False(t, strings.Contains(body, "2:05"))

	_, body = c.do(http.MethodGet, "/", nil)
	gt.Equal(t, strings.Count(body, `class="notice`), 0)
}

func TestMediaHandler_CheckEmptyURL(t *testing.T) {
	c := newTestClient(t, workingExtractor())

	_, body := c.do(http.MethodPost, "/check", url.Values{"url": {""}})
	gt.Equal(t, strings.Count(body, `class="notice warning"`), 1)
	gt.True(t, strings.Contains(body, "Please paste a valid link"))
}

func TestMediaHandler_DownloadWithoutCheck(t *testing.T) {
	c := newTestClient(t, workingExtractor())

	resp, body := c.do(http.MethodPost, "/download/audio", url.Values{"format": {"mp3"}})
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	events := parseSSE(t, body)
	gt.A(t, events).Length(1)
	gt.Equal(t, events[0].Event, "error")
	gt.Equal(t, events[0].Data["message"], "⚠️ Invalid request")
}

func TestMediaHandler_DownloadFailure(t *testing.T) {
	ext := workingExtractor()
	ext.downloadFunc = func(ctx context.Context, url string, opts model.DownloadOptions, sink interfaces.ProgressSink) (*model.MediaMetadata, error) {
		sink.OnProgress(model.ProgressEvent{Status: model.ProgressDownloading, Percent: "10%"})
		return nil, errors.New("ERROR: HTTP Error 403")
	}
	c := newTestClient(t, ext)

	_, _ = c.do(http.MethodPost, "/check", url.Values{"url": {testURL}})
	_, body := c.do(http.MethodPost, "/download/video", url.Values{"preset": {"best"}})

	events := parseSSE(t, body)
	gt.Equal(t, countEvents(events, "error"), 1)
	gt.Equal(t, countEvents(events, "done"), 0)
	gt.Equal(t, events[len(events)-1].Data["message"], "❌ Download failed")
}

func TestMediaHandler_PageListsKnownPlatforms(t *testing.T) {
	c := newTestClient(t, workingExtractor())
	_, body := c.do(http.MethodGet, "/", nil)

	for _, badge := range model.KnownPlatforms() {
		gt.True(t, strings.Contains(body, "<span>"+badge.Name+"</span>"))
	}
	gt.True(t, strings.Contains(body, "hundreds of other sites"))
}

func TestMediaHandler_UnknownKind(t *testing.T) {
	c := newTestClient(t, workingExtractor())
	resp, _ := c.do(http.MethodPost, "/download/image", url.Values{})
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestMediaHandler_HebrewPage(t *testing.T) {
	bundle, err := i18n.NewBundle("en")
	gt.NoError(t, err)
	c := newTestClient(t, workingExtractor(), controller.WithBundle(bundle))
	c.lang = "he-IL,he;q=0.9"

	_, body := c.do(http.MethodGet, "/", nil)
	gt.True(t, strings.Contains(body, `dir="rtl"`))
	gt.True(t, strings.Contains(body, "אין הורדות עדיין"))
	gt.True(t, strings.Contains(body, "ומאות אתרים נוספים"))
}

func TestSessionMiddleware(t *testing.T) {
	var seen []string
	h := controller.SessionMiddleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("issues a cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		cookies := w.Result().Cookies()
		gt.A(t, cookies).Length(1)
		gt.Equal(t, cookies[0].Name, controller.SessionCookieName)
		gt.True(t, cookies[0].HttpOnly)
		gt.Equal(t, cookies[0].SameSite, http.SameSiteLaxMode)
		seen = append(seen, cookies[0].Value)
	})

	t.Run("keeps a valid cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: controller.SessionCookieName, Value: seen[0]})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		gt.A(t, w.Result().Cookies()).Length(0)
	})

	t.Run("replaces a forged cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: controller.SessionCookieName, Value: "../../etc"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		gt.A(t, w.Result().Cookies()).Length(1)
	})
}
