package httpclient

import "context"

type ctxKey int

const skipRefreshKey ctxKey = iota

// SkipAuthRefresh marks requests whose 401 means "bad credentials" rather
// than "expired session", such as login and register.
func SkipAuthRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipRefreshKey, true)
}

func skipAuthRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(skipRefreshKey).(bool)
	return v
}
