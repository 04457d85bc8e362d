package model

import "regexp"

// PlatformID identifies a hosting platform recognized by URL pattern
type PlatformID string

const (
	PlatformYouTube     PlatformID = "youtube"
	PlatformTikTok      PlatformID = "tiktok"
	PlatformInstagram   PlatformID = "instagram"
	PlatformTwitter     PlatformID = "twitter"
	PlatformFacebook    PlatformID = "facebook"
	PlatformVimeo       PlatformID = "vimeo"
	PlatformTwitch      PlatformID = "twitch"
	PlatformReddit      PlatformID = "reddit"
	PlatformDailymotion PlatformID = "dailymotion"
	PlatformOther       PlatformID = "other"
)

// PlatformBadge is the cosmetic label shown next to the metadata card
type PlatformBadge struct {
	ID   PlatformID `json:"id"`
	Name string     `json:"name"`
	Icon string     `json:"icon"`
}

type platformPattern struct {
	badge   PlatformBadge
	pattern *regexp.Regexp
}

// platformPatterns is matched in order; the catch-all entry is not part of it
var platformPatterns = []platformPattern{
	{PlatformBadge{PlatformYouTube, "YouTube", "🔴"}, regexp.MustCompile(`(?i)(youtube\.com|youtu\.be)`)},
	{PlatformBadge{PlatformTikTok, "TikTok", "🎵"}, regexp.MustCompile(`(?i)tiktok\.com`)},
	{PlatformBadge{PlatformInstagram, "Instagram", "📸"}, regexp.MustCompile(`(?i)instagram\.com`)},
	{PlatformBadge{PlatformTwitter, "X/Twitter", "🐦"}, regexp.MustCompile(`(?i)(twitter\.com|x\.com)`)},
	{PlatformBadge{PlatformFacebook, "Facebook", "📘"}, regexp.MustCompile(`(?i)facebook\.com`)},
	{PlatformBadge{PlatformVimeo, "Vimeo", "🎬"}, regexp.MustCompile(`(?i)vimeo\.com`)},
	{PlatformBadge{PlatformTwitch, "Twitch", "💜"}, regexp.MustCompile(`(?i)twitch\.tv`)},
	{PlatformBadge{PlatformReddit, "Reddit", "🟠"}, regexp.MustCompile(`(?i)reddit\.com`)},
	{PlatformBadge{PlatformDailymotion, "Dailymotion", "🌐"}, regexp.MustCompile(`(?i)dailymotion\.com`)},
}

// OtherPlatform is returned when no specific pattern matches
var OtherPlatform = PlatformBadge{ID: PlatformOther, Name: "Other", Icon: "🌍"}

// DetectPlatform returns the badge of the first platform whose pattern matches
// rawURL, or OtherPlatform. It never fails.
func DetectPlatform(rawURL string) PlatformBadge {
	for _, p := range platformPatterns {
		if p.pattern.MatchString(rawURL) {
			return p.badge
		}
	}
	return OtherPlatform
}

// KnownPlatforms returns the specific platforms in detection order
func KnownPlatforms() []PlatformBadge {
	badges := make([]PlatformBadge, 0, len(platformPatterns))
	for _, p := range platformPatterns {
		badges = append(badges, p.badge)
	}
	return badges
}
