package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultSettingsPath = "~/.config/patreonfetch/settings.toml"
	projectSettingsFile = "patreon_downloader_config.toml"
	settingsTable       = "settings"
)

// Source describes where settings were read from.
type Source struct {
	Path   string
	Exists bool
	// Warnings lists problems that were tolerated while loading.
	Warnings []string
}

// DefaultPath returns the absolute path to the default settings file location.
func DefaultPath() (string, error) {
	return expandPath(defaultSettingsPath)
}

// Load returns the defaults merged with any recognized keys from the settings
// file at path. An empty path searches the default locations. Load never
// fails: unreadable files and malformed values are reported as warnings and
// the affected settings keep their defaults. Files that are not valid TOML
// are read as plain key = value lines.
func Load(path string) (Settings, Source) {
	settings := Default()

	src, err := resolvePath(path)
	if err != nil {
		src.Warnings = append(src.Warnings, err.Error())
		return settings, src
	}
	if !src.Exists {
		return settings, src
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		src.Warnings = append(src.Warnings, fmt.Sprintf("read settings: %v", err))
		return settings, src
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		src.Warnings = append(src.Warnings, scanSettings(data, &settings)...)
		return settings, src
	}

	table, ok := doc[settingsTable].(map[string]any)
	if !ok {
		if _, present := doc[settingsTable]; present {
			src.Warnings = append(src.Warnings, fmt.Sprintf("parse settings: [%s] is not a table", settingsTable))
		}
		return settings, src
	}

	for key, raw := range table {
		apply, known := fieldSetters[strings.ToLower(strings.TrimSpace(key))]
		if !known {
			continue
		}
		if err := apply(&settings, raw); err != nil {
			src.Warnings = append(src.Warnings, fmt.Sprintf("%s: %v", key, err))
		}
	}
	return settings, src
}

// Save writes every setting to path as strings under the [settings] table,
// overwriting the file. Parent directories are created as needed.
func Save(settings Settings, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("settings path required")
	}
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	payload, err := toml.Marshal(fileDocument{Settings: toFileSettings(settings)})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	lock := flock.New(expanded + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := os.WriteFile(expanded, payload, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

func resolvePath(path string) (Source, error) {
	if path = strings.TrimSpace(path); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return Source{Path: path}, err
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil:
			return Source{Path: expanded, Exists: !info.IsDir()}, nil
		case errors.Is(err, fs.ErrNotExist):
			return Source{Path: expanded}, nil
		default:
			return Source{Path: expanded}, fmt.Errorf("stat settings: %w", err)
		}
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return Source{}, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return Source{Path: defaultPath, Exists: true}, nil
	}
	if projectPath, err := filepath.Abs(projectSettingsFile); err == nil {
		if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
			return Source{Path: projectPath, Exists: true}, nil
		}
	}
	return Source{Path: defaultPath}, nil
}

type fieldSetter func(*Settings, any) error

var fieldSetters = map[string]fieldSetter{
	"output_dir": func(s *Settings, raw any) error {
		v, err := scalarString(raw)
		if err != nil {
			return err
		}
		if v = unsetToEmpty(v); v != "" {
			s.OutputDir = v
		}
		return nil
	},
	"include_comments":           boolSetter(func(s *Settings) *bool { return &s.IncludeComments }),
	"include_campaign_info":      boolSetter(func(s *Settings) *bool { return &s.IncludeCampaignInfo }),
	"include_content_info":       boolSetter(func(s *Settings) *bool { return &s.IncludeContentInfo }),
	"include_preview_media":      boolSetter(func(s *Settings) *bool { return &s.IncludePreviewMedia }),
	"include_all_media_variants": boolSetter(func(s *Settings) *bool { return &s.IncludeAllMediaVariants }),
	"log_level": func(s *Settings, raw any) error {
		v, err := scalarString(raw)
		if err != nil {
			return err
		}
		level, ok := ParseLogLevel(v)
		if !ok {
			return fmt.Errorf("unsupported log level %q", v)
		}
		s.LogLevel = level
		return nil
	},
	"ffmpeg_path":           optionalSetter(func(s *Settings) *string { return &s.FFmpegPath }),
	"filter_by_tier":        optionalSetter(func(s *Settings) *string { return &s.FilterByTier }),
	"filter_by_date_after":  optionalSetter(func(s *Settings) *string { return &s.FilterByDateAfter }),
	"filter_by_date_before": optionalSetter(func(s *Settings) *string { return &s.FilterByDateBefore }),
	"filter_by_media_type": func(s *Settings, raw any) error {
		v, err := scalarString(raw)
		if err != nil {
			return err
		}
		if v = unsetToEmpty(v); v == "" {
			s.FilterByMediaType = ""
			return nil
		}
		media, ok := ParseMediaType(v)
		if !ok {
			return fmt.Errorf("unsupported media type %q", v)
		}
		s.FilterByMediaType = media
		return nil
	},
}

func boolSetter(field func(*Settings) *bool) fieldSetter {
	return func(s *Settings, raw any) error {
		switch v := raw.(type) {
		case bool:
			*field(s) = v
			return nil
		case string:
			parsed, ok := ParseBool(v)
			if !ok {
				return fmt.Errorf("cannot parse %q as boolean", v)
			}
			*field(s) = parsed
			return nil
		case int64:
			if v != 0 && v != 1 {
				return fmt.Errorf("cannot parse %d as boolean", v)
			}
			*field(s) = v == 1
			return nil
		default:
			return fmt.Errorf("unsupported value type %T", raw)
		}
	}
}

func optionalSetter(field func(*Settings) *string) fieldSetter {
	return func(s *Settings, raw any) error {
		v, err := scalarString(raw)
		if err != nil {
			return err
		}
		*field(s) = unsetToEmpty(v)
		return nil
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", raw)
	}
}

func unsetToEmpty(v string) string {
	if v == unsetValue {
		return ""
	}
	return v
}

type fileDocument struct {
	Settings fileSettings `toml:"settings"`
}

type fileSettings struct {
	OutputDir               string `toml:"output_dir"`
	IncludeComments         string `toml:"include_comments"`
	IncludeCampaignInfo     string `toml:"include_campaign_info"`
	IncludeContentInfo      string `toml:"include_content_info"`
	IncludePreviewMedia     string `toml:"include_preview_media"`
	IncludeAllMediaVariants string `toml:"include_all_media_variants"`
	LogLevel                string `toml:"log_level"`
	FFmpegPath              string `toml:"ffmpeg_path"`
	FilterByTier            string `toml:"filter_by_tier"`
	FilterByDateAfter       string `toml:"filter_by_date_after"`
	FilterByDateBefore      string `toml:"filter_by_date_before"`
	FilterByMediaType       string `toml:"filter_by_media_type"`
}

func toFileSettings(s Settings) fileSettings {
	return fileSettings{
		OutputDir:               optional(s.OutputDir),
		IncludeComments:         formatBool(s.IncludeComments),
		IncludeCampaignInfo:     formatBool(s.IncludeCampaignInfo),
		IncludeContentInfo:      formatBool(s.IncludeContentInfo),
		IncludePreviewMedia:     formatBool(s.IncludePreviewMedia),
		IncludeAllMediaVariants: formatBool(s.IncludeAllMediaVariants),
		LogLevel:                s.LogLevel,
		FFmpegPath:              optional(s.FFmpegPath),
		FilterByTier:            optional(s.FilterByTier),
		FilterByDateAfter:       optional(s.FilterByDateAfter),
		FilterByDateBefore:      optional(s.FilterByDateBefore),
		FilterByMediaType:       optional(s.FilterByMediaType),
	}
}
