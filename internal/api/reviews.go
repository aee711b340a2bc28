package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

var reviewMessages = messages{
	http.StatusNotFound: "Review not found",
	http.StatusConflict: "You have already reviewed this novel",
}

// ReviewService manages reviews. Likes are small and frequent and use the
// light client.
type ReviewService struct {
	client *httpclient.Client
	light  *httpclient.Client
}

func reviewPath(id int64) string { return "/reviews/" + strconv.FormatInt(id, 10) }

// List returns one page of a novel's reviews.
func (s *ReviewService) List(ctx context.Context, novelID int64, opts ListOptions) (*Page[Review], error) {
	page, err := call[Page[Review]](ctx, s.client, http.MethodGet, novelPath(novelID)+"/reviews", opts.query(), nil, reviewMessages)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Create posts a review.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*Review, error) {
	r, err := call[Review](ctx, s.client, http.MethodPost, "/reviews", nil, in, reviewMessages)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	return send(ctx, s.client, http.MethodDelete, reviewPath(id), nil, reviewMessages)
}

// Like likes a review and returns it with the new count.
func (s *ReviewService) Like(ctx context.Context, id int64) (*Review, error) {
	r, err := call[Review](ctx, s.light, http.MethodPost, reviewPath(id)+"/like", nil, nil, reviewMessages)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
