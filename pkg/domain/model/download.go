package model

// DownloadResult is the orchestrator output. Path lies inside the working
// directory and is only valid until the caller removes it.
type DownloadResult struct {
	Path string         // Absolute path of the produced file
	Info *MediaMetadata // Extractor info record, nil when not reported
}

// DeliveredFile holds the bytes handed to the user after the working directory is gone
type DeliveredFile struct {
	Name     string    `json:"name"`
	MIMEType string    `json:"mime_type"`
	Size     int64     `json:"size"`
	Kind     MediaKind `json:"kind"`
	Data     []byte    `json:"-"`
}

// DownloadEvent describes a completed download for notifications
type DownloadEvent struct {
	SessionID string
	URL       string
	Title     string
	Kind      MediaKind
	Size      int64
	Platform  PlatformBadge
}
