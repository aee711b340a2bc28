package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	mw "github.com/maugus0/yushan-platform-frontend-sub001/internal/middleware"
)

var (
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("forbidden")
	errConflict  = errors.New("conflict")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"code": http.StatusCreated, "message": "created", "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": message, "data": nil})
}

func invalid(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"code":    http.StatusUnprocessableEntity,
		"message": "Validation failed",
		"errors":  fields,
		"data":    nil,
	})
}

// failErr maps data layer errors; what names the resource in messages.
func failErr(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, errNotFound):
		fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, errForbidden):
		fail(c, http.StatusForbidden, "You are not allowed to modify this "+strings.ToLower(what))
	case errors.Is(err, errConflict):
		fail(c, http.StatusConflict, what+" already exists")
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// paginate slices items by the page (0-based) and size query parameters.
func paginate[T any](c *gin.Context, items []T) api.Page[T] {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	total := len(items)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := items[start:end]
	if content == nil {
		content = []T{}
	}
	return api.Page[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    (total + size - 1) / size,
		Page:          page,
		Size:          size,
	}
}

func subject(c *gin.Context) string {
	return c.GetString(mw.ContextUserKey)
}
