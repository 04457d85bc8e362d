package model

import (
	"time"
	"unicode/utf8"
)

const (
	// HistoryTitleLimit is the maximum number of characters kept from a title
	HistoryTitleLimit = 40
	// HistoryDisplayLimit is the number of entries rendered
	HistoryDisplayLimit = 10
	// HistoryTimeLayout formats the entry timestamp
	HistoryTimeLayout = "15:04"
)

// HistoryEntry records one successful download
type HistoryEntry struct {
	Title string    `json:"title"`
	Icon  string    `json:"icon"`
	Time  string    `json:"time"`
	Kind  MediaKind `json:"kind"`
}

// NewHistoryEntry builds an entry with a truncated title
func NewHistoryEntry(title string, kind MediaKind, at time.Time) HistoryEntry {
	return HistoryEntry{
		Title: truncateRunes(title, HistoryTitleLimit),
		Icon:  kind.Icon(),
		Time:  at.Format(HistoryTimeLayout),
		Kind:  kind,
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// History is an append-only list of entries, oldest first
type History struct {
	Entries []HistoryEntry `json:"entries"`
}

// Append records an entry
func (h *History) Append(e HistoryEntry) {
	h.Entries = append(h.Entries, e)
}

// Len returns the number of recorded entries
func (h *History) Len() int {
	return len(h.Entries)
}

// Recent returns up to n entries, newest first
func (h *History) Recent(n int) []HistoryEntry {
	if n <= 0 || len(h.Entries) == 0 {
		return nil
	}
	if n > len(h.Entries) {
		n = len(h.Entries)
	}

	out := make([]HistoryEntry, 0, n)
	for i := len(h.Entries) - 1; i >= len(h.Entries)-n; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}
