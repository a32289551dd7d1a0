package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"patreonfetch/internal/config"
	"patreonfetch/internal/urllist"
)

// clearToken resets an optional filter to unset.
const clearToken = "-"

var (
	yesAnswers = map[string]struct{}{"y": {}, "yes": {}, "s": {}, "sim": {}}
	noAnswers  = map[string]struct{}{"n": {}, "no": {}, "nao": {}, "não": {}}
	endAnswers = map[string]struct{}{"": {}, "done": {}, "end": {}, "fim": {}}
)

// Answers is the outcome of the setup questionnaire.
type Answers struct {
	Settings   config.Settings
	Credential string
	// Save is true when the user asked to persist Settings.
	Save bool
}

type inputLine struct {
	text string
	err  error
}

// Collector asks questions on out and reads answers from in. A single reader
// goroutine feeds lines so a pending question can be abandoned when the
// context is cancelled.
type Collector struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan inputLine
	start sync.Once
}

// New constructs a Collector.
func New(in io.Reader, out io.Writer) *Collector {
	return &Collector{in: bufio.NewReader(in), out: out, lines: make(chan inputLine)}
}

// Setup walks through the setup questions, starting from current values.
func (c *Collector) Setup(ctx context.Context, settings config.Settings, credential string) (Answers, error) {
	answers := Answers{Settings: settings, Credential: strings.TrimSpace(credential)}
	s := &answers.Settings

	c.println("\n=== Initial setup ===")

	if answers.Credential == "" {
		c.println("\nDownloading subscriber-only content requires your session cookie.")
		c.println("Copy the value of the 'session_id' cookie from a logged-in browser session.")
		line, err := c.ask(ctx, "Paste the session_id cookie value: ")
		if err != nil {
			return answers, err
		}
		answers.Credential = line
	}

	line, err := c.ask(ctx, fmt.Sprintf("\nOutput directory (current: %s): ", s.OutputDir))
	if err != nil {
		return answers, err
	}
	if line != "" {
		s.OutputDir = line
	}

	c.println("\n=== Advanced settings ===")
	line, err = c.ask(ctx, fmt.Sprintf("Include comments in downloads? (y/n, current: %s): ", yesNo(s.IncludeComments)))
	if err != nil {
		return answers, err
	}
	if line != "" {
		s.IncludeComments, _ = parseYesNo(line)
	}

	c.printf("\nAvailable log levels: %s\n", strings.Join(config.LogLevels, ", "))
	line, err = c.ask(ctx, fmt.Sprintf("Log level (current: %s): ", s.LogLevel))
	if err != nil {
		return answers, err
	}
	if line != "" {
		if level, ok := config.ParseLogLevel(line); ok {
			s.LogLevel = level
		} else {
			c.printf("Unknown log level %q; keeping %s.\n", line, s.LogLevel)
		}
	}

	c.println("\n=== Filters (optional) ===")
	line, err = c.ask(ctx, fmt.Sprintf("Filter by tier (current: %s; empty keeps it, '-' clears): ", display(s.FilterByTier)))
	if err != nil {
		return answers, err
	}
	switch line {
	case "":
	case clearToken:
		s.FilterByTier = ""
	default:
		s.FilterByTier = line
	}

	c.printf("Available media types: %s\n", strings.Join(config.MediaTypes, ", "))
	line, err = c.ask(ctx, fmt.Sprintf("Filter by media type (current: %s; empty keeps it, '-' clears): ", display(s.FilterByMediaType)))
	if err != nil {
		return answers, err
	}
	switch line {
	case "":
	case clearToken:
		s.FilterByMediaType = ""
	default:
		if media, ok := config.ParseMediaType(line); ok {
			s.FilterByMediaType = media
		} else {
			c.printf("Unknown media type %q; keeping %s.\n", line, display(s.FilterByMediaType))
		}
	}

	line, err = c.ask(ctx, "\nSave these settings? (y/n): ")
	if err != nil {
		return answers, err
	}
	answers.Save, _ = parseYesNo(line)
	return answers, nil
}

// URLs reads platform URLs until an empty line, a terminator word, or end of
// input. URLs outside the platform are rejected and the loop continues.
func (c *Collector) URLs(ctx context.Context) ([]string, error) {
	c.println("\n=== URLs to download ===")
	var urls []string
	for {
		line, err := c.ask(ctx, "Enter a URL (or 'done' to finish): ")
		if err != nil {
			return urls, err
		}
		if _, done := endAnswers[strings.ToLower(line)]; done {
			return urls, nil
		}
		if !urllist.IsProfileURL(line) {
			c.printf("Invalid URL: it must start with %s\n", urllist.ProfilePrefix)
			continue
		}
		urls = append(urls, line)
		c.printf("Added: %s\n", line)
	}
}

// ask prints question and returns the trimmed answer. End of input yields an
// empty answer; cancellation abandons the question with ctx.Err().
func (c *Collector) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(c.out)
		return "", err
	}
	c.start.Do(func() { go c.readLines() })
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", nil
		}
		if line.err != nil && !errors.Is(line.err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", line.err)
		}
		return strings.TrimSpace(line.text), nil
	}
}

// readLines hands each input line to ask and closes lines after the first
// read error. It stays blocked on in when the caller stops asking.
func (c *Collector) readLines() {
	for {
		text, err := c.in.ReadString('\n')
		c.lines <- inputLine{text: text, err: err}
		if err != nil {
			close(c.lines)
			return
		}
	}
}

func (c *Collector) println(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Collector) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func parseYesNo(answer string) (bool, bool) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if _, ok := yesAnswers[answer]; ok {
		return true, true
	}
	if _, ok := noAnswers[answer]; ok {
		return false, true
	}
	return false, false
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func display(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
