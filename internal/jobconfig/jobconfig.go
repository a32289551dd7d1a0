package jobconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"patreonfetch/internal/config"
)

const (
	filePrefix      = "patreon_config_"
	fileExt         = ".conf"
	headerLayout    = "2006-01-02 15:04:05"
	fileStampLayout = "20060102_150405"
)

// Options are the inputs of one job's configuration document.
type Options struct {
	Credential string
	// OutputDir is the job's creator directory; it is made absolute on render.
	OutputDir   string
	Settings    config.Settings
	GeneratedAt time.Time
}

// Render produces the patreon-dl configuration document.
func Render(opts Options) ([]byte, error) {
	credential := strings.TrimSpace(opts.Credential)
	if credential == "" {
		return nil, errors.New("session credential required")
	}
	if strings.ContainsAny(credential, "\r\n") {
		return nil, errors.New("session credential must be a single line")
	}
	outDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	s := opts.Settings
	for _, field := range []struct{ name, value string }{
		{"output directory", outDir},
		{"ffmpeg path", s.FFmpegPath},
		{"tier filter", s.FilterByTier},
		{"media type filter", s.FilterByMediaType},
		{"published-after filter", s.FilterByDateAfter},
		{"published-before filter", s.FilterByDateBefore},
	} {
		if strings.ContainsAny(strings.TrimSpace(field.value), "\r\n") {
			return nil, fmt.Errorf("%s must be a single line", field.name)
		}
	}
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var b strings.Builder
	b.WriteString("# patreon-dl configuration\n")
	fmt.Fprintf(&b, "# generated %s\n", generated.Format(headerLayout))

	b.WriteString("\n[request]\n")
	writeKey(&b, "cookie", "session_id="+credential)
	writeOptional(&b, "ffmpeg", s.FFmpegPath)

	b.WriteString("\n[output]\n")
	writeKey(&b, "outDir", outDir)

	b.WriteString("\n[include]\n")
	writeKey(&b, "campaign.info", boolToken(s.IncludeCampaignInfo))
	writeKey(&b, "content.info", boolToken(s.IncludeContentInfo))
	writeKey(&b, "preview.media", boolToken(s.IncludePreviewMedia))
	writeKey(&b, "content.media", "true")
	writeKey(&b, "all.media.variants", boolToken(s.IncludeAllMediaVariants))
	writeKey(&b, "comments", boolToken(s.IncludeComments))
	writeOptional(&b, "posts.in.tier", s.FilterByTier)
	writeOptional(&b, "posts.with.media.type", s.FilterByMediaType)
	writeOptional(&b, "posts.published.after", s.FilterByDateAfter)
	writeOptional(&b, "posts.published.before", s.FilterByDateBefore)

	b.WriteString("\n[filenameSanitization]\n")
	writeKey(&b, "replaceInvalidChars", "true")

	b.WriteString("\n[logger]\n")

	return []byte(b.String()), nil
}

// Write stores doc in dir under a name unique to this job and returns its path.
func Write(dir string, doc []byte, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if now.IsZero() {
		now = time.Now()
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := filePrefix + now.Format(fileStampLayout) + "_" + suffix + fileExt
	path := filepath.Join(dir, name)

	// The document carries the session cookie, so keep it private.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create job config: %w", err)
	}
	if _, err := file.Write(doc); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write job config: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close job config: %w", err)
	}
	return path, nil
}

func writeKey(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func writeOptional(b *strings.Builder, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	writeKey(b, key, strings.TrimSpace(value))
}

func boolToken(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
