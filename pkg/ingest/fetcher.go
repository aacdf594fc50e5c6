// Package ingest implements the ingestion workflow: fetch a URL or sitemap,
// extract its text, index it through the retrieval provider, and record the
// source so it is never processed twice.
package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// Fetcher retrieves documents from the web.
type Fetcher interface {
	// FetchURL fetches a single page and returns its extracted content.
	FetchURL(ctx context.Context, url string) ([]retrieval.Document, error)

	// FetchSitemap expands a sitemap into its constituent pages and
	// fetches each of them.
	FetchSitemap(ctx context.Context, url string) ([]retrieval.Document, error)
}

// HTTPFetcher implements Fetcher over plain HTTP.
type HTTPFetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPFetcher creates a Fetcher with a default HTTP client.
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// FetchURL fetches a page and extracts its visible text.
func (f *HTTPFetcher) FetchURL(ctx context.Context, url string) ([]retrieval.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	text, err := extractText(body)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %q: %w", url, err)
	}

	return []retrieval.Document{{
		ID:     url,
		Source: url,
		Text:   text,
	}}, nil
}

// sitemapIndex is the subset of the sitemap XML schema we care about.
type sitemapIndex struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// FetchSitemap expands the sitemap and fetches each listed page. A page
// that fails to fetch is logged and skipped rather than failing the whole
// sitemap.
func (f *HTTPFetcher) FetchSitemap(ctx context.Context, url string) ([]retrieval.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("parsing sitemap %q: %w", url, err)
	}

	var docs []retrieval.Document
	for _, entry := range index.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}

		pageDocs, err := f.FetchURL(ctx, loc)
		if err != nil {
			f.logger.Warn("failed to fetch sitemap page",
				zap.String("sitemap", url),
				zap.String("page", loc),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, pageDocs...)
	}

	return docs, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", url, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", url, err)
	}
	return body, nil
}

// extractText walks the HTML tree collecting visible text, skipping script
// and style elements, and collapsing whitespace.
func extractText(body []byte) (string, error) {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(parts, " "), nil
}
