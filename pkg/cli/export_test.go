package cli

var SubtitleKey = subtitleKey
