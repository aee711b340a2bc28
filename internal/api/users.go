package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/httpclient"
)

var userMessages = messages{
	http.StatusNotFound: "User not found",
}

// UserService reads and edits profiles.
type UserService struct {
	client *httpclient.Client
}

// Me returns the signed-in user.
func (s *UserService) Me(ctx context.Context) (*User, error) {
	u, err := call[User](ctx, s.client, http.MethodGet, "/users/me", nil, nil, userMessages)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Get returns a public profile.
func (s *UserService) Get(ctx context.Context, uuid string) (*User, error) {
	u, err := call[User](ctx, s.client, http.MethodGet, "/users/"+url.PathEscape(uuid), nil, nil, userMessages)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the fields set in upd.
func (s *UserService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	p := newPartial()
	setField(p, "username", upd.Username)
	setField(p, "profileDetail", upd.Bio)
	setField(p, "avatarUrl", upd.AvatarURL)
	setField(p, "gender", upd.Gender)
	body, err := p.bytes()
	if err != nil {
		return nil, err
	}
	u, err := call[User](ctx, s.client, http.MethodPut, "/users/me", nil, body, userMessages)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
