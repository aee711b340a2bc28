package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

// SearchService backs incremental search on the light client.
type SearchService struct {
	light *httpclient.Client
}

// Novels searches novels by keyword.
func (s *SearchService) Novels(ctx context.Context, keyword string, page, size int) (*Page[Novel], error) {
	q := url.Values{"keyword": {strings.TrimSpace(keyword)}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	res, err := call[Page[Novel]](ctx, s.light, http.MethodGet, "/search", q, nil, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Suggestions returns title completions for a partial keyword. An empty
// keyword returns nothing without calling the server.
func (s *SearchService) Suggestions(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}
	return call[[]string](ctx, s.light, http.MethodGet, "/search/suggestions", url.Values{"keyword": {keyword}}, nil, nil)
}
