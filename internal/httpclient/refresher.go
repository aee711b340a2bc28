package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/credential"
	apierrors "github.com/maugus0/yushan-platform-frontend-sub001/internal/errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Refresher calls the backend refresh endpoint on a raw client.
type Refresher struct {
	client   *http.Client
	endpoint string
	store    *credential.Store
}

// NewRefresher builds a refresher posting to endpoint.
func NewRefresher(client *http.Client, endpoint string, store *credential.Store) *Refresher {
	return &Refresher{client: client, endpoint: endpoint, store: store}
}

// Refresh exchanges the stored refresh token for a new credential.
// Request:  {"refreshToken": "..."}
// Response: {"data": {"accessToken", "refreshToken", "expiresIn"}} with expiresIn in ms.
func (r *Refresher) Refresh(ctx context.Context) (TokenResponse, error) {
	refreshToken := r.store.RefreshToken()
	if refreshToken == "" {
		return TokenResponse{}, apierrors.ErrNoRefreshToken
	}
	body, err := sjson.SetBytes([]byte(`{}`), "refreshToken", refreshToken)
	if err != nil {
		return TokenResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return TokenResponse{}, err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	resp, err := r.client.Do(req)
	if err != nil {
		return TokenResponse{}, apierrors.MapTransportError(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TokenResponse{}, apierrors.MapHTTPError(resp.StatusCode, data)
	}
	return parseTokenResponse(data)
}

func parseTokenResponse(data []byte) (TokenResponse, error) {
	if !gjson.ValidBytes(data) {
		return TokenResponse{}, fmt.Errorf("refresh response is not JSON")
	}
	payload := gjson.GetBytes(data, "data")
	if !payload.IsObject() {
		return TokenResponse{}, fmt.Errorf("refresh response has no data object")
	}
	tok := TokenResponse{
		AccessToken:  strings.TrimSpace(payload.Get("accessToken").String()),
		RefreshToken: strings.TrimSpace(payload.Get("refreshToken").String()),
	}
	if tok.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("refresh response is missing accessToken")
	}
	if ms := payload.Get("expiresIn").Int(); ms > 0 {
		tok.ExpiresIn = time.Duration(ms) * time.Millisecond
	}
	return tok, nil
}
