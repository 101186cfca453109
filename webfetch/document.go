package webfetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Document is a fetched page rendered to markdown, ready for the
// processing pipeline. Name is a URL-derived slug used as the stable
// document name, so re-fetching a page updates the same node.
type Document struct {
	URL      string
	Name     string
	Title    string
	Markdown string
}

// Client fetches pages and renders their main content to markdown.
type Client struct {
	fetcher   *Fetcher
	converter *md.Converter
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithFetcher replaces the default fetcher.
func WithFetcher(f *Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client with default fetch limits.
func New(opts ...Option) *Client {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	c := &Client{
		fetcher:   NewFetcher(0, "", 0),
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document fetches a page and renders it to markdown. Main-content
// extraction runs first; when it fails the whole page converts, which
// is noisier but never empty.
func (c *Client) Document(ctx context.Context, rawURL string) (*Document, error) {
	res, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	title := ""
	content := string(res.Body)
	article, err := readability.FromReader(bytes.NewReader(res.Body), parsed)
	if err != nil {
		c.logger.Warn("readability extraction failed, converting full page",
			"url", rawURL,
			"error", err)
	} else {
		title = strings.TrimSpace(article.Title)
		if article.Content != "" {
			content = article.Content
		}
	}

	markdown, err := c.converter.ConvertString(content)
	if err != nil {
		return nil, fmt.Errorf("converting to markdown: %w", err)
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractHTMLTitle(res.Body)
	}
	if title == "" {
		title = extractMarkdownTitle(markdown)
	}

	// Lead with the title so classification and title extraction see it.
	if title != "" && !strings.HasPrefix(markdown, "# ") {
		markdown = "# " + title + "\n\n" + markdown
	}

	return &Document{
		URL:      rawURL,
		Name:     Slug(rawURL),
		Title:    title,
		Markdown: markdown,
	}, nil
}

// extractHTMLTitle extracts the <title> text from raw HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			walk(c)
		}
	}
	walk(doc)

	return title
}

// extractMarkdownTitle extracts the first H1 heading from markdown.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// cleanMarkdown collapses excessive blank lines and trims trailing
// whitespace per line.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
