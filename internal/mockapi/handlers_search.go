package mockapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

const maxSuggestions = 8

func (s *Server) handleSearch(c *gin.Context) {
	keyword := strings.ToLower(strings.TrimSpace(c.Query("keyword")))
	if keyword == "" {
		fail(c, http.StatusBadRequest, "keyword is required")
		return
	}
	matches := s.data.listNovels(func(n *api.Novel) bool {
		return strings.Contains(strings.ToLower(n.Title), keyword) ||
			strings.Contains(strings.ToLower(n.Synopsis), keyword) ||
			strings.Contains(strings.ToLower(n.AuthorName), keyword)
	}, c.Query("sort"))
	ok(c, paginate(c, matches))
}

// handleSuggestions returns titles starting with the keyword first, then
// titles containing it.
func (s *Server) handleSuggestions(c *gin.Context) {
	keyword := strings.ToLower(strings.TrimSpace(c.Query("keyword")))
	if keyword == "" {
		ok(c, []string{})
		return
	}
	var prefix, contains []string
	for _, n := range s.data.listNovels(nil, "title") {
		title := strings.ToLower(n.Title)
		switch {
		case strings.HasPrefix(title, keyword):
			prefix = append(prefix, n.Title)
		case strings.Contains(title, keyword):
			contains = append(contains, n.Title)
		}
	}
	sort.Strings(prefix)
	out := append(prefix, contains...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	ok(c, out)
}
