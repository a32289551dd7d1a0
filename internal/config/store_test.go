package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"patreonfetch/internal/config"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	got, src := config.Load(path)
	if src.Exists {
		t.Fatal("expected settings file to be reported absent")
	}
	if src.Path != path {
		t.Fatalf("unexpected resolved path %q", src.Path)
	}
	if len(src.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", src.Warnings)
	}
	if got != config.Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestLoadDefaultLocationUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	_, src := config.Load("")
	want := filepath.Join(home, ".config", "patreonfetch", "settings.toml")
	if src.Path != want || src.Exists {
		t.Fatalf("unexpected source: %+v", src)
	}
}

func TestLoadFallsBackToProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("patreon_downloader_config.toml", []byte("[settings]\nlog_level = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write project settings: %v", err)
	}

	got, src := config.Load("")
	if !src.Exists {
		t.Fatalf("expected project settings file to be found, got %+v", src)
	}
	if got.LogLevel != config.LogLevelWarn {
		t.Fatalf("expected warn log level, got %q", got.LogLevel)
	}
}

func TestLoadPartialDocumentKeepsDefaults(t *testing.T) {
	path := writeSettings(t, `
[settings]
include_comments = "yes"
filter_by_tier = "Gold"
`)
	got, src := config.Load(path)
	if !src.Exists || len(src.Warnings) != 0 {
		t.Fatalf("unexpected source: %+v", src)
	}

	want := config.Default()
	want.IncludeComments = true
	want.FilterByTier = "Gold"
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestLoadBooleanCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
		warn bool
	}{
		{raw: `"true"`, want: true},
		{raw: `"Yes"`, want: true},
		{raw: `"on"`, want: true},
		{raw: `"1"`, want: true},
		{raw: `true`, want: true},
		{raw: `"false"`, want: false},
		{raw: `"no"`, want: false},
		{raw: `"0"`, want: false},
		{raw: `"OFF"`, want: false},
		{raw: `"sure"`, want: false, warn: true},
		{raw: `"2"`, want: false, warn: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			path := writeSettings(t, "[settings]\ninclude_comments = "+tc.raw+"\n")
			got, src := config.Load(path)
			if got.IncludeComments != tc.want {
				t.Fatalf("include_comments = %v, want %v", got.IncludeComments, tc.want)
			}
			if (len(src.Warnings) > 0) != tc.warn {
				t.Fatalf("warnings = %v, want warning %v", src.Warnings, tc.warn)
			}
		})
	}
}

func TestLoadInvalidEnumsKeepDefaults(t *testing.T) {
	path := writeSettings(t, `
[settings]
log_level = "verbose"
filter_by_media_type = "gif"
`)
	got, src := config.Load(path)
	if got.LogLevel != config.LogLevelInfo {
		t.Fatalf("expected default log level, got %q", got.LogLevel)
	}
	if got.FilterByMediaType != "" {
		t.Fatalf("expected unset media filter, got %q", got.FilterByMediaType)
	}
	if len(src.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", src.Warnings)
	}
}

func TestLoadIgnoresUnknownKeysAndTables(t *testing.T) {
	path := writeSettings(t, `
[settings]
unknown_key = "value"
log_level = "DEBUG"

[other]
include_comments = "true"
`)
	got, src := config.Load(path)
	if len(src.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", src.Warnings)
	}
	if got.LogLevel != config.LogLevelDebug {
		t.Fatalf("expected debug, got %q", got.LogLevel)
	}
	if got.IncludeComments {
		t.Fatal("keys outside [settings] must be ignored")
	}
}

func TestLoadMalformedDocumentDegradesToDefaults(t *testing.T) {
	path := writeSettings(t, "[settings\ninclude_comments = ")
	got, src := config.Load(path)
	if got != config.Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if len(src.Warnings) != 1 || !strings.Contains(src.Warnings[0], "parse settings") {
		t.Fatalf("expected parse warning, got %v", src.Warnings)
	}
}

func TestLoadHandEditedDocumentKeepsValidKeys(t *testing.T) {
	path := writeSettings(t, `# edited by hand
[settings]
log_level = "debug"
filter_by_tier = 'Gold'
include_comments = yes
include_preview_media = False
this line is garbage
output_dir: /srv/patreon

[other]
log_level = error
`)
	got, src := config.Load(path)

	want := config.Default()
	want.LogLevel = config.LogLevelDebug
	want.FilterByTier = "Gold"
	want.IncludeComments = true
	want.IncludePreviewMedia = false
	want.OutputDir = "/srv/patreon"
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
	if len(src.Warnings) != 1 || !strings.Contains(src.Warnings[0], "line 7") {
		t.Fatalf("expected a single warning for the garbage line, got %v", src.Warnings)
	}
}

func TestLoadHandEditedBadValueWarnsOnlyForThatKey(t *testing.T) {
	path := writeSettings(t, "[settings]\ninclude_comments = sure\nfilter_by_tier = Silver\n")
	got, src := config.Load(path)
	if got.FilterByTier != "Silver" || got.IncludeComments {
		t.Fatalf("unexpected settings %+v", got)
	}
	if len(src.Warnings) != 1 || !strings.HasPrefix(src.Warnings[0], "include_comments:") {
		t.Fatalf("expected one include_comments warning, got %v", src.Warnings)
	}
}

func TestLoadNoneMeansUnset(t *testing.T) {
	path := writeSettings(t, `
[settings]
ffmpeg_path = "None"
filter_by_media_type = "None"
output_dir = "None"
`)
	got, _ := config.Load(path)
	if got.FFmpegPath != "" || got.FilterByMediaType != "" {
		t.Fatalf("expected unset optionals, got %+v", got)
	}
	if got.OutputDir != "downloads" {
		t.Fatalf("expected default output dir, got %q", got.OutputDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := config.Settings{
		OutputDir:               "/srv/patreon",
		IncludeComments:         true,
		IncludeCampaignInfo:     false,
		IncludeContentInfo:      true,
		IncludePreviewMedia:     false,
		IncludeAllMediaVariants: true,
		LogLevel:                config.LogLevelDebug,
		FFmpegPath:              "/usr/bin/ffmpeg",
		FilterByTier:            "Supporter Plus",
		FilterByDateAfter:       "2024-01-01",
		FilterByDateBefore:      "",
		FilterByMediaType:       config.MediaTypeVideo,
	}
	if err := config.Save(want, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, src := config.Load(path)
	if !src.Exists || len(src.Warnings) != 0 {
		t.Fatalf("unexpected source: %+v", src)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	defaults := config.Default()
	if err := config.Save(defaults, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got, _ := config.Load(path); got != defaults {
		t.Fatalf("defaults round trip mismatch: %+v", got)
	}
}

func TestSaveWritesEveryKeyAsString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := config.Save(config.Default(), path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}

	var doc map[string]map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode saved settings: %v", err)
	}
	table := doc["settings"]
	if len(table) != len(config.Default().Entries()) {
		t.Fatalf("expected %d keys, got %d", len(config.Default().Entries()), len(table))
	}
	for key, value := range table {
		if _, ok := value.(string); !ok {
			t.Fatalf("key %s saved as %T, want string", key, value)
		}
	}
	if table["include_comments"] != "false" || table["ffmpeg_path"] != "None" {
		t.Fatalf("unexpected saved values: %v", table)
	}
}

func TestSaveRequiresPath(t *testing.T) {
	if err := config.Save(config.Default(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestParseHelpers(t *testing.T) {
	if v, ok := config.ParseLogLevel(" Warn "); !ok || v != config.LogLevelWarn {
		t.Fatalf("ParseLogLevel = %q, %v", v, ok)
	}
	if _, ok := config.ParseLogLevel("trace"); ok {
		t.Fatal("trace must be rejected")
	}
	if v, ok := config.ParseMediaType("ATTACHMENT"); !ok || v != config.MediaTypeAttachment {
		t.Fatalf("ParseMediaType = %q, %v", v, ok)
	}
	if _, ok := config.ParseMediaType("document"); ok {
		t.Fatal("document must be rejected")
	}
}
