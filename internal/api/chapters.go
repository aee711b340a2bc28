package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

var chapterMessages = messages{
	http.StatusNotFound:  "Chapter not found",
	http.StatusConflict:  "A chapter with this number already exists",
	http.StatusForbidden: "This chapter is locked",
}

// ChapterService manages chapters.
type ChapterService struct {
	client *httpclient.Client
	heavy  *httpclient.Client
}

func chapterPath(uuid string) string { return "/chapters/" + url.PathEscape(uuid) }

// List returns one page of a novel's chapters, without content.
func (s *ChapterService) List(ctx context.Context, novelID int64, opts ListOptions) (*Page[Chapter], error) {
	page, err := call[Page[Chapter]](ctx, s.client, http.MethodGet, novelPath(novelID)+"/chapters", opts.query(), nil, chapterMessages)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a chapter with its content.
func (s *ChapterService) Get(ctx context.Context, uuid string) (*Chapter, error) {
	c, err := call[Chapter](ctx, s.client, http.MethodGet, chapterPath(uuid), nil, nil, chapterMessages)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create adds a chapter.
func (s *ChapterService) Create(ctx context.Context, in ChapterInput) (*Chapter, error) {
	c, err := call[Chapter](ctx, s.heavy, http.MethodPost, "/chapters", nil, in, chapterMessages)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update changes the fields set in upd.
func (s *ChapterService) Update(ctx context.Context, uuid string, upd ChapterUpdate) (*Chapter, error) {
	p := newPartial()
	setField(p, "title", upd.Title)
	setField(p, "content", upd.Content)
	setField(p, "isPremium", upd.IsPremium)
	setField(p, "yuanCost", upd.YuanCost)
	body, err := p.bytes()
	if err != nil {
		return nil, err
	}
	c, err := call[Chapter](ctx, s.heavy, http.MethodPut, chapterPath(uuid), nil, body, chapterMessages)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a chapter.
func (s *ChapterService) Delete(ctx context.Context, uuid string) error {
	return send(ctx, s.client, http.MethodDelete, chapterPath(uuid), nil, chapterMessages)
}
