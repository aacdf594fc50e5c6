package testutils

import (
	"context"
	"fmt"

	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
)

// MockFetcher is a test fetcher serving documents from in-memory maps
type MockFetcher struct {
	// Pages maps a URL to the documents fetching it yields
	Pages map[string][]retrieval.Document

	// Sitemaps maps a sitemap URL to the documents expanding it yields
	Sitemaps map[string][]retrieval.Document

	// FailOn causes fetches of the matching URL to fail
	FailOn string

	// FetchedURLs records every URL passed to FetchURL
	FetchedURLs []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Pages:    make(map[string][]retrieval.Document),
		Sitemaps: make(map[string][]retrieval.Document),
	}
}

func (m *MockFetcher) FetchURL(_ context.Context, url string) ([]retrieval.Document, error) {
	m.FetchedURLs = append(m.FetchedURLs, url)

	if m.FailOn != "" && url == m.FailOn {
		return nil, fmt.Errorf("mock fetch failure for: %s", url)
	}

	if docs, ok := m.Pages[url]; ok {
		return docs, nil
	}

	return []retrieval.Document{
		{ID: url, Source: url, Text: "content of " + url},
	}, nil
}

func (m *MockFetcher) FetchSitemap(_ context.Context, url string) ([]retrieval.Document, error) {
	if m.FailOn != "" && url == m.FailOn {
		return nil, fmt.Errorf("mock fetch failure for: %s", url)
	}

	if docs, ok := m.Sitemaps[url]; ok {
		return docs, nil
	}

	return []retrieval.Document{
		{ID: url, Source: url, Text: "content of " + url},
	}, nil
}
