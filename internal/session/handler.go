package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"

	log "github.com/sirupsen/logrus"
)

// ExpiredMessage is the notice shown when the session cannot be recovered.
const ExpiredMessage = "Your session has expired. Please log in again."

// ExpiredParam marks the login redirect as caused by an expired session.
const ExpiredParam = "expired"

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(ctx context.Context, target string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(ctx context.Context, message string)

func (f NotifyFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// NavigateFunc adapts a function to Navigator.
type NavigateFunc func(ctx context.Context, target string)

func (f NavigateFunc) Navigate(ctx context.Context, target string) { f(ctx, target) }

// Handler is the side effect run after a refresh fails for good: the store
// has already been cleared, so it only tells the user and sends them to the
// login view.
type Handler struct {
	loginPath string
	notifier  Notifier
	navigator Navigator
	publisher events.Publisher
}

// Option customizes a Handler.
type Option func(*Handler)

// WithNotifier replaces the default LogNotifier.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) {
		if n != nil {
			h.notifier = n
		}
	}
}

// WithNavigator sets where the login redirect goes.
func WithNavigator(n Navigator) Option {
	return func(h *Handler) { h.navigator = n }
}

// WithPublisher publishes session.expired events.
func WithPublisher(p events.Publisher) Option {
	return func(h *Handler) { h.publisher = p }
}

// NewHandler builds a handler redirecting to loginPath.
func NewHandler(loginPath string, opts ...Option) *Handler {
	if strings.TrimSpace(loginPath) == "" {
		loginPath = "/login"
	}
	h := &Handler{loginPath: loginPath, notifier: LogNotifier{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUnauthorized notifies the user, publishes session.expired and
// redirects to the login view.
func (h *Handler) HandleUnauthorized(ctx context.Context, err error) {
	target := LoginURL(h.loginPath)
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	h.notifier.Notify(ctx, ExpiredMessage)
	if h.publisher != nil {
		h.publisher.Publish(ctx, events.TopicSessionExpired, events.SessionExpired{
			Reason:   reason,
			Redirect: target,
		}, nil)
	}
	if h.navigator != nil {
		h.navigator.Navigate(ctx, target)
	}
}

// LoginURL appends expired=true to the login path, keeping any query it
// already has.
func LoginURL(loginPath string) string {
	u, err := url.Parse(loginPath)
	if err != nil {
		return loginPath + "?" + ExpiredParam + "=true"
	}
	q := u.Query()
	q.Set(ExpiredParam, "true")
	u.RawQuery = q.Encode()
	return u.String()
}

// LogNotifier writes notices to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, message string) {
	log.Warn(message)
}

// EventNavigator publishes navigation requests on the navigate topic.
type EventNavigator struct {
	Publisher events.Publisher
}

func (n EventNavigator) Navigate(ctx context.Context, target string) {
	if n.Publisher == nil {
		return
	}
	n.Publisher.Publish(ctx, events.TopicNavigate, target, nil)
}
