package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

const duckduckgoURL = "https://api.duckduckgo.com/"

// WebSearchTool queries the DuckDuckGo instant-answer API.
type WebSearchTool struct {
	Client  *http.Client
	BaseURL string
}

func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: duckduckgoURL,
	}
}

func (t *WebSearchTool) GetName() string { return "web_search" }

func (t *WebSearchTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "web_search",
		Description: "Search the web using DuckDuckGo search engine",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: "Search query to find web pages",
			},
			"max_results": {
				Type:        "integer",
				Description: "Maximum number of results to show (default: 5)",
			},
		},
		Required: []string{"query"},
	}
}

// searchResponse is the subset of the DuckDuckGo instant-answer payload
// the tool renders.
type searchResponse struct {
	Heading       string        `json:"Heading"`
	AbstractText  string        `json:"AbstractText"`
	AbstractURL   string        `json:"AbstractURL"`
	RelatedTopics []searchTopic `json:"RelatedTopics"`
}

type searchTopic struct {
	Text     string        `json:"Text"`
	FirstURL string        `json:"FirstURL"`
	Topics   []searchTopic `json:"Topics"`
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	maxResults := intArg(args, "max_results", 5)

	if query == "" {
		return "", fmt.Errorf("no search query provided")
	}

	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		t.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("performing web search: unexpected status %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	results := flattenResults(parsed, maxResults)

	var b strings.Builder
	fmt.Fprintf(&b, "Web Search: %q\n", query)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	if len(results) == 0 {
		b.WriteString("No results found. Try a different search term.\n")
		return b.String(), nil
	}

	for i, r := range results {
		fmt.Fprintf(&b, "  %d. %s\n     %s\n\n", i+1, r.Text, r.FirstURL)
	}
	return b.String(), nil
}

// flattenResults collects the abstract and related topics into a flat,
// bounded result list.
func flattenResults(parsed searchResponse, max int) []searchTopic {
	var results []searchTopic
	if parsed.AbstractText != "" {
		text := parsed.AbstractText
		if parsed.Heading != "" {
			text = parsed.Heading + ": " + text
		}
		results = append(results, searchTopic{Text: text, FirstURL: parsed.AbstractURL})
	}

	var collect func(topics []searchTopic)
	collect = func(topics []searchTopic) {
		for _, topic := range topics {
			if len(results) >= max {
				return
			}
			if len(topic.Topics) > 0 {
				collect(topic.Topics)
				continue
			}
			if topic.Text != "" {
				results = append(results, topic)
			}
		}
	}
	collect(parsed.RelatedTopics)

	if len(results) > max {
		results = results[:max]
	}
	return results
}
