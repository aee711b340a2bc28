package constants

import "time"

// HTTP Client 连接池配置
const (
	MaxIdleConns        = 100
	MaxIdleConnsPerHost = 32
	IdleConnTimeout     = 90 * time.Second
	DefaultKeepAlive    = 30 * time.Second
)

// HTTP 超时配置
const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultExpectContinueTimeout = 2 * time.Second
)

// Header names.
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"
)
