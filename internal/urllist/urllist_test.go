package urllist_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"patreonfetch/internal/urllist"
)

func TestReadFileSkipsBlankAndCommentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	body := "# creators to fetch\n" +
		"https://www.patreon.com/acme\n" +
		"\n" +
		"   \n" +
		"  # indented comment\n" +
		"  https://www.patreon.com/posts/12345  \n" +
		"https://www.patreon.com/zeta\r\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write url file: %v", err)
	}

	got, err := urllist.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	want := []string{
		"https://www.patreon.com/acme",
		"https://www.patreon.com/posts/12345",
		"https://www.patreon.com/zeta",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReadFileMissingReturnsEmpty(t *testing.T) {
	got, err := urllist.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMergeKeepsFileEntriesFirst(t *testing.T) {
	got := urllist.Merge([]string{"f1", "f2"}, []string{"a1", " ", "a2"})
	want := []string{"f1", "f2", "a1", "a2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCreatorFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{url: "https://www.patreon.com/acme", want: "acme", ok: true},
		{url: "https://www.patreon.com/acme/posts", want: "acme", ok: true},
		{url: "https://patreon.com/acme?filters=1", want: "acme", ok: true},
		{url: "https://www.patreon.com/c/acme/posts", want: "acme", ok: true},
		{url: "https://www.patreon.com/cw/acme", want: "acme", ok: true},
		{url: "https://www.patreon.com/posts/some-post-123", want: "posts", ok: true},
		{url: "https://example.com/acme", ok: false},
	}
	for _, tc := range cases {
		got, ok := urllist.CreatorFromURL(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("CreatorFromURL(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCreatorsFromArgs(t *testing.T) {
	got := urllist.CreatorsFromArgs([]string{
		"https://www.patreon.com/acme",
		"zeta",
		"https://example.com/skip",
		"",
	})
	want := []string{"acme", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIsProfileURL(t *testing.T) {
	if !urllist.IsProfileURL("https://www.patreon.com/acme") {
		t.Fatal("expected platform URL to be accepted")
	}
	if urllist.IsProfileURL("http://www.patreon.com/acme") {
		t.Fatal("expected non-https URL to be rejected")
	}
}
