package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"github.com/tidwall/gjson"
)

func (s *Server) handleMe(c *gin.Context) {
	u, found := s.data.user(subject(c))
	if !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, u)
}

func (s *Server) handleGetUser(c *gin.Context) {
	u, found := s.data.user(c.Param("uuid"))
	if !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	u.Email = ""
	ok(c, u)
}

// handleUpdateMe applies only the fields present in the body.
func (s *Server) handleUpdateMe(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		fail(c, http.StatusBadRequest, "Invalid profile update")
		return
	}
	doc := gjson.ParseBytes(body)
	if v := doc.Get("username"); v.Exists() && strings.TrimSpace(v.String()) == "" {
		invalid(c, map[string]string{"username": "must not be empty"})
		return
	}
	u, found := s.data.updateUser(subject(c), func(u *api.User) {
		if v := doc.Get("username"); v.Exists() {
			u.Username = strings.TrimSpace(v.String())
		}
		if v := doc.Get("profileDetail"); v.Exists() {
			u.Bio = v.String()
		}
		if v := doc.Get("avatarUrl"); v.Exists() {
			u.AvatarURL = v.String()
		}
		if v := doc.Get("gender"); v.Exists() {
			u.Gender = int(v.Int())
		}
	})
	if !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, u)
}
