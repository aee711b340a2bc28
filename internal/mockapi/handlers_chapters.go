package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"github.com/tidwall/gjson"
)

func (s *Server) handleListChapters(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	chapters, found := s.data.listChapters(id)
	if !found {
		fail(c, http.StatusNotFound, "Novel not found")
		return
	}
	ok(c, paginate(c, chapters))
}

func (s *Server) handleGetChapter(c *gin.Context) {
	ch, found := s.data.chapter(c.Param("uuid"))
	if !found {
		fail(c, http.StatusNotFound, "Chapter not found")
		return
	}
	if ch.IsPremium && subject(c) == "" {
		fail(c, http.StatusForbidden, "Log in to read premium chapters")
		return
	}
	ok(c, ch)
}

func (s *Server) handleCreateChapter(c *gin.Context) {
	var in api.ChapterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid chapter")
		return
	}
	fields := map[string]string{}
	if in.NovelID <= 0 {
		fields["novelId"] = "is required"
	}
	if in.ChapterNumber <= 0 {
		fields["chapterNumber"] = "must be positive"
	}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}
	ch, err := s.data.createChapter(subject(c), in)
	if err != nil {
		failErr(c, err, "Chapter")
		return
	}
	created(c, ch)
}

func (s *Server) handleUpdateChapter(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		fail(c, http.StatusBadRequest, "Invalid chapter update")
		return
	}
	doc := gjson.ParseBytes(body)
	ch, err := s.data.mutateChapter(c.Param("uuid"), subject(c), func(ch *api.Chapter) {
		if v := doc.Get("title"); v.Exists() && strings.TrimSpace(v.String()) != "" {
			ch.Title = v.String()
		}
		if v := doc.Get("content"); v.Exists() {
			ch.Content = v.String()
		}
		if v := doc.Get("isPremium"); v.Exists() {
			ch.IsPremium = v.Bool()
		}
		if v := doc.Get("yuanCost"); v.Exists() {
			ch.YuanCost = v.Float()
		}
	})
	if err != nil {
		failErr(c, err, "Chapter")
		return
	}
	ok(c, ch)
}

func (s *Server) handleDeleteChapter(c *gin.Context) {
	if err := s.data.deleteChapter(c.Param("uuid"), subject(c)); err != nil {
		failErr(c, err, "Chapter")
		return
	}
	ok(c, nil)
}
