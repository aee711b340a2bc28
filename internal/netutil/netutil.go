package netutil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller's address. Forwarding headers are honoured only
// when the direct peer is a loopback proxy, so remote callers cannot pick
// their own rate-limit bucket.
func ClientIP(r *http.Request) net.IP {
	if r == nil {
		return nil
	}
	peer := remoteIP(r.RemoteAddr)
	if peer == nil || !peer.IsLoopback() {
		return peer
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip := net.ParseIP(strings.TrimSpace(xr)); ip != nil {
			return ip
		}
	}
	return peer
}

func remoteIP(addr string) net.IP {
	addr = strings.TrimSpace(addr)
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return net.ParseIP(host)
}

// ClassifySource buckets an address for logs.
func ClassifySource(ip net.IP) string {
	switch {
	case ip == nil:
		return "unknown"
	case ip.IsLoopback():
		return "loopback"
	case ip.IsPrivate():
		return "private"
	default:
		return "public"
	}
}

// IPString returns the textual form or "".
func IPString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
