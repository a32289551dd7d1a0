package config

import (
	"strings"
)

const (
	defaultOutputDir = "downloads"
	defaultLogLevel  = LogLevelInfo

	// unsetValue marks an optional key without a value in the settings file.
	unsetValue = "None"
)

// Log levels accepted by patreon-dl's --log-level flag.
const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelNone  = "none"
)

// Media types accepted by the posts.with.media.type filter.
const (
	MediaTypeVideo      = "video"
	MediaTypeImage      = "image"
	MediaTypeAudio      = "audio"
	MediaTypeAttachment = "attachment"
)

// LogLevels lists the accepted log levels in display order.
var LogLevels = []string{LogLevelInfo, LogLevelDebug, LogLevelWarn, LogLevelError, LogLevelNone}

// MediaTypes lists the accepted media type filters in display order.
var MediaTypes = []string{MediaTypeVideo, MediaTypeImage, MediaTypeAudio, MediaTypeAttachment}

// Settings holds every user-facing option. Empty optional strings mean unset.
type Settings struct {
	OutputDir string

	IncludeComments         bool
	IncludeCampaignInfo     bool
	IncludeContentInfo      bool
	IncludePreviewMedia     bool
	IncludeAllMediaVariants bool

	LogLevel string

	FFmpegPath         string
	FilterByTier       string
	FilterByDateAfter  string
	FilterByDateBefore string
	FilterByMediaType  string
}

// Default returns Settings populated with repository defaults.
func Default() Settings {
	return Settings{
		OutputDir:               defaultOutputDir,
		IncludeComments:         false,
		IncludeCampaignInfo:     true,
		IncludeContentInfo:      true,
		IncludePreviewMedia:     true,
		IncludeAllMediaVariants: true,
		LogLevel:                defaultLogLevel,
	}
}

// ParseLogLevel normalizes value and reports whether it is an accepted level.
func ParseLogLevel(value string) (string, bool) {
	return matchEnum(value, LogLevels)
}

// ParseMediaType normalizes value and reports whether it is an accepted media type.
func ParseMediaType(value string) (string, bool) {
	return matchEnum(value, MediaTypes)
}

func matchEnum(value string, allowed []string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if v == candidate {
			return candidate, true
		}
	}
	return "", false
}

// ParseBool accepts the textual booleans a hand-edited settings file may use.
// The second result is false when value is not a recognized boolean.
func ParseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "yes", "true", "on":
		return true, true
	case "0", "no", "false", "off":
		return false, true
	default:
		return false, false
	}
}

// Entry is one key/value pair of the settings table in file order.
type Entry struct {
	Key   string
	Value string
}

// Entries renders every setting as it would appear in the settings file.
func (s Settings) Entries() []Entry {
	return []Entry{
		{"output_dir", optional(s.OutputDir)},
		{"include_comments", formatBool(s.IncludeComments)},
		{"include_campaign_info", formatBool(s.IncludeCampaignInfo)},
		{"include_content_info", formatBool(s.IncludeContentInfo)},
		{"include_preview_media", formatBool(s.IncludePreviewMedia)},
		{"include_all_media_variants", formatBool(s.IncludeAllMediaVariants)},
		{"log_level", s.LogLevel},
		{"ffmpeg_path", optional(s.FFmpegPath)},
		{"filter_by_tier", optional(s.FilterByTier)},
		{"filter_by_date_after", optional(s.FilterByDateAfter)},
		{"filter_by_date_before", optional(s.FilterByDateBefore)},
		{"filter_by_media_type", optional(s.FilterByMediaType)},
	}
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func optional(v string) string {
	if strings.TrimSpace(v) == "" {
		return unsetValue
	}
	return v
}
