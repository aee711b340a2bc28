package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

var novelMessages = messages{
	http.StatusNotFound:  "Novel not found",
	http.StatusForbidden: "Only the author can change this novel",
}

// NovelService manages novels. Create and update carry large payloads and
// go through the heavy client.
type NovelService struct {
	client *httpclient.Client
	heavy  *httpclient.Client
}

func novelPath(id int64) string { return "/novels/" + strconv.FormatInt(id, 10) }

// List returns one page of novels.
func (s *NovelService) List(ctx context.Context, opts ListOptions) (*Page[Novel], error) {
	page, err := call[Page[Novel]](ctx, s.client, http.MethodGet, "/novels", opts.query(), nil, novelMessages)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one novel.
func (s *NovelService) Get(ctx context.Context, id int64) (*Novel, error) {
	n, err := call[Novel](ctx, s.client, http.MethodGet, novelPath(id), nil, nil, novelMessages)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create publishes a new novel.
func (s *NovelService) Create(ctx context.Context, in NovelInput) (*Novel, error) {
	n, err := call[Novel](ctx, s.heavy, http.MethodPost, "/novels", nil, in, novelMessages)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Update changes the fields set in upd.
func (s *NovelService) Update(ctx context.Context, id int64, upd NovelUpdate) (*Novel, error) {
	p := newPartial()
	setField(p, "title", upd.Title)
	setField(p, "synopsis", upd.Synopsis)
	setField(p, "categoryId", upd.CategoryID)
	setField(p, "coverImgUrl", upd.CoverImgURL)
	setField(p, "isCompleted", upd.IsCompleted)
	body, err := p.bytes()
	if err != nil {
		return nil, err
	}
	n, err := call[Novel](ctx, s.heavy, http.MethodPut, novelPath(id), nil, body, novelMessages)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes a novel.
func (s *NovelService) Delete(ctx context.Context, id int64) error {
	return send(ctx, s.client, http.MethodDelete, novelPath(id), nil, novelMessages)
}
