package model

import (
	"math"
	"strconv"
	"strings"
)

// ProgressStatus is the phase reported by the extractor
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressProcessing  ProgressStatus = "processing"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is one extractor progress report. Percent, Speed and ETA are
// display strings as produced by the extractor and may be empty or malformed.
type ProgressEvent struct {
	Status   ProgressStatus `json:"status"`
	Percent  string         `json:"percent"`
	Speed    string         `json:"speed"`
	ETA      string         `json:"eta"`
	Filename string         `json:"filename,omitempty"`
}

// ParsePercent converts strings like " 42.5%" to a fraction in [0, 1]
func ParsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	switch {
	case v < 0:
		return 0, true
	case v > 100:
		return 1, true
	}
	return v / 100, true
}

// ProgressView is what a progress display shows. Apply never fails: a missing
// or malformed percent leaves Fraction unchanged.
type ProgressView struct {
	Fraction float64
	Percent  string
	Speed    string
	ETA      string
	Status   ProgressStatus
}

// Apply folds one event into the view
func (v *ProgressView) Apply(ev ProgressEvent) {
	v.Status = ev.Status
	switch ev.Status {
	case ProgressFinished:
		v.Fraction = 1
		v.Percent = "100%"
		return
	case ProgressProcessing:
		return
	}

	if f, ok := ParsePercent(ev.Percent); ok {
		v.Fraction = f
		v.Percent = strings.TrimSpace(ev.Percent)
	}
	v.Speed = orNA(ev.Speed)
	v.ETA = orNA(ev.ETA)
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "N/A"
	}
	return s
}
