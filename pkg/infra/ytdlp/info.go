package ytdlp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// infoRecord is the part of yt-dlp's info JSON read by this package. Numeric
// fields are raw because extractors emit numbers, numeric strings or null.
type infoRecord struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Uploader          string                     `json:"uploader"`
	Channel           string                     `json:"channel"`
	Duration          json.RawMessage            `json:"duration"`
	ViewCount         json.RawMessage            `json:"view_count"`
	LikeCount         json.RawMessage            `json:"like_count"`
	Thumbnail         string                     `json:"thumbnail"`
	WebpageURL        string                     `json:"webpage_url"`
	Extractor         string                     `json:"extractor"`
	Ext               string                     `json:"ext"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

func (r *infoRecord) toMetadata() *model.MediaMetadata {
	uploader := r.Uploader
	if uploader == "" {
		uploader = r.Channel
	}

	meta := &model.MediaMetadata{
		ID:           r.ID,
		Title:        r.Title,
		Uploader:     uploader,
		ViewCount:    parseCount(r.ViewCount),
		LikeCount:    parseCount(r.LikeCount),
		Thumbnail:    r.Thumbnail,
		WebpageURL:   r.WebpageURL,
		Extractor:    r.Extractor,
		Ext:          r.Ext,
		Subtitles:    sortedKeys(r.Subtitles),
		AutoCaptions: sortedKeys(r.AutomaticCaptions),
	}
	if d, ok := parseNumber(r.Duration); ok && d >= 0 {
		secs := int(d)
		meta.Duration = &secs
	}
	return meta
}

// decodeInfo parses one info JSON document
func decodeInfo(raw []byte) (*model.MediaMetadata, error) {
	var rec infoRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode extractor info")
	}
	return rec.toMetadata(), nil
}

// decodeInfoLines returns the last info JSON object found in mixed output,
// or nil when there is none
func decodeInfoLines(output string) *model.MediaMetadata {
	var found *model.MediaMetadata
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var rec infoRecord
		if err := json.Unmarshal(line, &rec); err != nil || (rec.ID == "" && rec.Title == "") {
			continue
		}
		found = rec.toMetadata()
	}
	return found
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseCount(raw json.RawMessage) int64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	return int64(v)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
