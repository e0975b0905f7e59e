package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
	"golang.org/x/net/html"
)

const frontmatterDelimiter = "---"

// newlines folds CRLF and lone CR line endings to LF
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// LoadSubmission reads a submission from disk and parses it. Line endings
// are normalized to LF first, so a CRLF copy of a file hashes to the same id.
func LoadSubmission(path string) (*model.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	sub := ParseSubmission(path, newlines.Replace(string(data)))
	return &sub, nil
}

// ParseSubmission splits content into frontmatter and body.
// It never fails: malformed frontmatter leaves the whole content as body.
func ParseSubmission(path string, content string) model.Submission {
	sub := model.Submission{
		Path:        path,
		Filename:    filepath.Base(path),
		Frontmatter: map[string]string{},
		Body:        content,
		Content:     content,
	}

	if isHTML(path) {
		sub.Body = htmlText(content)
		return sub
	}

	if frontmatter, body, ok := splitFrontmatter(content); ok {
		sub.Frontmatter = frontmatter
		sub.Body = body
	}

	return sub
}

// splitFrontmatter parses a leading "---" delimited block of key: value lines
func splitFrontmatter(content string) (frontmatter map[string]string, body string, ok bool) {
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return nil, "", false
	}

	parts := strings.SplitN(content, frontmatterDelimiter, 3)
	if len(parts) < 3 {
		return nil, "", false
	}

	frontmatter = make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(parts[1]), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		frontmatter[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return frontmatter, strings.TrimSpace(parts[2]), true
}

// unquote strips surrounding double quotes, then single quotes
func unquote(s string) string {
	s = strings.Trim(s, `"`)
	return strings.Trim(s, `'`)
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// htmlText returns the visible text of an HTML document, or the input
// unchanged when it cannot be parsed
func htmlText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}
	return strings.TrimSpace(extractVisibleText(doc))
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
