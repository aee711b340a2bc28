// Package api wraps the Yushan backend endpoints. Each call goes through
// one of the rate-limited clients and returns only its payload; failures are
// *errors.APIError values with a user-facing message.
package api

import (
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

// Services groups the domain wrappers.
type Services struct {
	Auth     *AuthService
	Users    *UserService
	Novels   *NovelService
	Chapters *ChapterService
	Reviews  *ReviewService
	Search   *SearchService
}

// New binds the wrappers to a client set.
func New(set *httpclient.ClientSet, store *credential.Store) *Services {
	return &Services{
		Auth:     &AuthService{client: set.Default, store: store},
		Users:    &UserService{client: set.Default},
		Novels:   &NovelService{client: set.Default, heavy: set.Heavy},
		Chapters: &ChapterService{client: set.Default, heavy: set.Heavy},
		Reviews:  &ReviewService{client: set.Default, light: set.Light},
		Search:   &SearchService{light: set.Light},
	}
}
