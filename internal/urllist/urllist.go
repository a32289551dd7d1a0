package urllist

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const commentMarker = "#"

// ProfilePrefix is the prefix every interactively entered URL must carry.
const ProfilePrefix = "https://www.patreon.com/"

var creatorPattern = regexp.MustCompile(`patreon\.com/([^/?#]+)(?:/([^/?#]+))?`)

// Path segments that introduce the creator's vanity name instead of being it.
var creatorPrefixes = map[string]struct{}{
	"c":  {},
	"cw": {},
}

// ReadFile returns the non-blank, non-comment lines of path in file order.
// On failure it returns an empty slice together with the error so callers can
// report it and carry on.
func ReadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return []string{}, fmt.Errorf("read url file %s: %w", path, err)
	}
	defer file.Close()

	urls := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return []string{}, fmt.Errorf("read url file %s: %w", path, err)
	}
	return urls, nil
}

// Merge appends command-line URLs after file URLs, preserving both orders.
func Merge(fileURLs, argURLs []string) []string {
	out := make([]string, 0, len(fileURLs)+len(argURLs))
	out = append(out, fileURLs...)
	for _, u := range argURLs {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// CreatorFromURL extracts the creator identifier from a platform URL.
func CreatorFromURL(rawURL string) (string, bool) {
	match := creatorPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	creator := match[1]
	if _, ok := creatorPrefixes[strings.ToLower(creator)]; ok && match[2] != "" {
		creator = match[2]
	}
	return creator, true
}

// CreatorsFromArgs resolves tier-listing targets. URLs contribute their
// creator; bare identifiers are used verbatim; anything else is skipped.
func CreatorsFromArgs(args []string) []string {
	creators := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if creator, ok := CreatorFromURL(arg); ok {
			creators = append(creators, creator)
			continue
		}
		if !strings.Contains(arg, "/") && !strings.Contains(arg, ":") {
			creators = append(creators, arg)
		}
	}
	return creators
}

// IsProfileURL reports whether rawURL points at the platform.
func IsProfileURL(rawURL string) bool {
	return strings.HasPrefix(strings.TrimSpace(rawURL), ProfilePrefix)
}
