package netutil

import (
	"net"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		xff    string
		xreal  string
		want   string
	}{
		{"direct", "203.0.113.9:5555", "", "", "203.0.113.9"},
		{"remote peer cannot spoof", "203.0.113.9:5555", "10.0.0.1", "", "203.0.113.9"},
		{"local proxy forwards", "127.0.0.1:8000", "198.51.100.7, 10.0.0.1", "", "198.51.100.7"},
		{"local proxy real ip", "127.0.0.1:8000", "", "198.51.100.8", "198.51.100.8"},
		{"local proxy bad header", "127.0.0.1:8000", "garbage", "", "127.0.0.1"},
		{"no port", "192.168.1.4", "", "", "192.168.1.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xreal != "" {
				req.Header.Set("X-Real-IP", tc.xreal)
			}
			require.Equal(t, tc.want, IPString(ClientIP(req)))
		})
	}
	require.Nil(t, ClientIP(nil))
}

func TestClassifySource(t *testing.T) {
	require.Equal(t, "unknown", ClassifySource(nil))
	require.Equal(t, "loopback", ClassifySource(net.ParseIP("::1")))
	require.Equal(t, "private", ClassifySource(net.ParseIP("10.1.2.3")))
	require.Equal(t, "public", ClassifySource(net.ParseIP("8.8.8.8")))
}
