package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"github.com/tidwall/gjson"
)

func (s *Server) handleListNovels(c *gin.Context) {
	category, _ := strconv.Atoi(c.Query("category"))
	var keep func(*api.Novel) bool
	if category > 0 {
		keep = func(n *api.Novel) bool { return n.CategoryID == category }
	}
	ok(c, paginate(c, s.data.listNovels(keep, c.Query("sort"))))
}

func (s *Server) handleGetNovel(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	n, found := s.data.viewNovel(id)
	if !found {
		fail(c, http.StatusNotFound, "Novel not found")
		return
	}
	ok(c, n)
}

func (s *Server) handleCreateNovel(c *gin.Context) {
	var in api.NovelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid novel")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if in.CategoryID <= 0 {
		fields["categoryId"] = "is required"
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}
	author, found := s.data.user(subject(c))
	if !found {
		fail(c, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	created(c, s.data.createNovel(author, in))
}

func (s *Server) handleUpdateNovel(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		fail(c, http.StatusBadRequest, "Invalid novel update")
		return
	}
	doc := gjson.ParseBytes(body)
	n, err := s.data.mutateNovel(id, subject(c), func(n *api.Novel) {
		if v := doc.Get("title"); v.Exists() && strings.TrimSpace(v.String()) != "" {
			n.Title = v.String()
		}
		if v := doc.Get("synopsis"); v.Exists() {
			n.Synopsis = v.String()
		}
		if v := doc.Get("categoryId"); v.Exists() && v.Int() > 0 {
			n.CategoryID = int(v.Int())
		}
		if v := doc.Get("coverImgUrl"); v.Exists() {
			n.CoverImgURL = v.String()
		}
		if v := doc.Get("isCompleted"); v.Exists() {
			n.IsCompleted = v.Bool()
		}
	})
	if err != nil {
		failErr(c, err, "Novel")
		return
	}
	ok(c, n)
}

func (s *Server) handleDeleteNovel(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := s.data.deleteNovel(id, subject(c)); err != nil {
		failErr(c, err, "Novel")
		return
	}
	ok(c, nil)
}
