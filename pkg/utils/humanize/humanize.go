package humanize

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// Duration formats seconds as H:MM:SS, or M:SS below one hour. A nil or
// negative value yields unknown.
func Duration(seconds *int, unknown string) string {
	if seconds == nil || *seconds < 0 {
		return unknown
	}
	s := *seconds
	hours, rem := s/3600, s%3600
	minutes, secs := rem/60, rem%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FileSize formats a byte count with one decimal in binary units. Zero or
// negative sizes yield unknown.
func FileSize(size int64, unknown string) string {
	if size <= 0 {
		return unknown
	}
	v := float64(size)
	for _, unit := range sizeUnits {
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1f TB", v)
}

// Count formats n with the thousands separator of tag
func Count(n int64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%d", n)
}
