package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/types"
)

// SessionState is the per-session position in the check/download flow
type SessionState string

const (
	StateIdle        SessionState = "idle"
	StateChecking    SessionState = "checking"
	StateReady       SessionState = "ready"
	StateDownloading SessionState = "downloading"
	StateDone        SessionState = "done"
	StateFailed      SessionState = "failed"
)

// NoticeLevel selects how a notice is rendered
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message shown on the next page render. Message is a
// catalog message id, localized when rendered.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Session is the state kept for one user between requests. It replaces ambient
// global state: every operation receives the session explicitly.
type Session struct {
	ID        string         `json:"id"`
	URL       string         `json:"url"`
	Metadata  *MediaMetadata `json:"metadata,omitempty"`
	Platform  PlatformBadge  `json:"platform"`
	History   History        `json:"history"`
	State     SessionState   `json:"state"`
	Notice    *Notice        `json:"notice,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession creates an idle session
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		Platform:  OtherPlatform,
		UpdatedAt: time.Now(),
	}
}

// Reset clears the checked URL and its metadata. History survives.
func (s *Session) Reset() {
	s.URL = ""
	s.Metadata = nil
	s.Platform = OtherPlatform
	s.State = StateIdle
	s.Notice = nil
	s.touch()
}

// BeginCheck drops any previous metadata and enters CHECKING
func (s *Session) BeginCheck(url string) {
	s.URL = url
	s.Metadata = nil
	s.Platform = DetectPlatform(url)
	s.State = StateChecking
	s.touch()
}

// CompleteCheck stores fetched metadata and enters READY
func (s *Session) CompleteCheck(meta *MediaMetadata) {
	s.Metadata = meta
	s.State = StateReady
	s.touch()
}

// FailCheck leaves the session without metadata
func (s *Session) FailCheck() {
	s.Metadata = nil
	s.State = StateIdle
	s.touch()
}

// Ready reports whether metadata is displayed and a download may start
func (s *Session) Ready() bool {
	return s.Metadata != nil && (s.State == StateReady || s.State == StateDone || s.State == StateFailed)
}

// BeginDownload enters DOWNLOADING
func (s *Session) BeginDownload() error {
	if s.State == StateDownloading {
		return goerr.New("download already in progress",
			goerr.V("session_id", s.ID), goerr.T(types.ErrTagBusy))
	}
	if !s.Ready() {
		return goerr.New("no media checked",
			goerr.V("session_id", s.ID), goerr.V("state", s.State), goerr.T(types.ErrTagInvalidInput))
	}
	s.State = StateDownloading
	s.touch()
	return nil
}

// CompleteDownload records the history entry and enters DONE
func (s *Session) CompleteDownload(entry HistoryEntry) {
	s.History.Append(entry)
	s.State = StateDone
	s.touch()
}

// FailDownload enters FAILED. Metadata is kept, so a new download may start.
func (s *Session) FailDownload() {
	s.State = StateFailed
	s.touch()
}

// SetNotice replaces the pending notice
func (s *Session) SetNotice(level NoticeLevel, message string) {
	s.Notice = &Notice{Level: level, Message: message}
}

// TakeNotice returns and clears the pending notice
func (s *Session) TakeNotice() *Notice {
	n := s.Notice
	s.Notice = nil
	return n
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
