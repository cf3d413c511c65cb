package tools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"golang.org/x/net/html"
)

const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// WebFetchTool retrieves a web page and extracts its text content.
type WebFetchTool struct {
	Client *http.Client
}

func NewWebFetchTool() *WebFetchTool {
	return &WebFetchTool{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *WebFetchTool) GetName() string { return "web_fetch" }

func (t *WebFetchTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "web_fetch",
		Description: "Fetch and extract text content from a web page URL",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"url": {
				Type:        "string",
				Description: "URL of the web page to fetch content from",
			},
			"max_length": {
				Type:        "integer",
				Description: "Maximum number of characters to return (default: 5000)",
			},
		},
		Required: []string{"url"},
	}
}

func (t *WebFetchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	url := stringArg(args, "url")
	maxLength := intArg(args, "max_length", 5000)

	if url == "" {
		return "", fmt.Errorf("no URL provided")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("URL must start with http:// or https://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching URL: unexpected status %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing web page: %w", err)
	}

	content := extractText(doc)
	if len(content) > maxLength {
		content = content[:maxLength] + "...[content truncated]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Web Fetch: %s\n", url)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Content (%d characters):\n\n", len(content))
	b.WriteString(content)

	return b.String(), nil
}

// extractText walks the parsed document collecting visible text, skipping
// script and style elements, with whitespace collapsed.
func extractText(doc *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, strings.Join(strings.Fields(text), " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(parts, " ")
}
