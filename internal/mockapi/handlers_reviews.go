package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

func (s *Server) handleListReviews(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	reviews, found := s.data.listReviews(id)
	if !found {
		fail(c, http.StatusNotFound, "Novel not found")
		return
	}
	ok(c, paginate(c, reviews))
}

func (s *Server) handleCreateReview(c *gin.Context) {
	var in api.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid review")
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		invalid(c, map[string]string{"rating": "must be between 1 and 5"})
		return
	}
	author, found := s.data.user(subject(c))
	if !found {
		fail(c, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	r, err := s.data.createReview(author, in)
	if err != nil {
		failErr(c, err, "Review")
		return
	}
	created(c, r)
}

func (s *Server) handleDeleteReview(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := s.data.deleteReview(id, subject(c)); err != nil {
		failErr(c, err, "Review")
		return
	}
	ok(c, nil)
}

func (s *Server) handleLikeReview(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	r, err := s.data.likeReview(id, subject(c))
	if err != nil {
		failErr(c, err, "Review")
		return
	}
	ok(c, r)
}
