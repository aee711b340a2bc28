package httpclient

import (
	"net"
	"net/http"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
)

// NewBaseTransport returns the shared connection pool all clients sit on.
func NewBaseTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   constants.DefaultDialTimeout,
		KeepAlive: constants.DefaultKeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          constants.MaxIdleConns,
		MaxIdleConnsPerHost:   constants.MaxIdleConnsPerHost,
		IdleConnTimeout:       constants.IdleConnTimeout,
		TLSHandshakeTimeout:   constants.DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: constants.DefaultResponseHeaderTimeout,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
	}
}
