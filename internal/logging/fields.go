package logging

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/netutil"
	log "github.com/sirupsen/logrus"
)

// WithRequest builds a log entry for an outbound request.
// Fields: request_id, method, host, path. Extras win on key conflicts.
func WithRequest(req *http.Request, extras log.Fields) *log.Entry {
	if req == nil {
		return log.WithFields(extras)
	}
	fields := log.Fields{
		"request_id": req.Header.Get("X-Request-ID"),
		"method":     req.Method,
	}
	if req.URL != nil {
		fields["host"] = req.URL.Host
		fields["path"] = req.URL.Path
	}
	for k, v := range extras {
		fields[k] = v
	}
	return log.WithFields(fields)
}

// WithReq builds a log entry enriched with common inbound HTTP request fields.
func WithReq(c *gin.Context, extras log.Fields) *log.Entry {
	if c == nil || c.Request == nil {
		return log.WithFields(extras)
	}
	path := c.FullPath()
	if path == "" && c.Request.URL != nil {
		path = c.Request.URL.Path
	}
	rid, _ := c.Get("request_id")
	ip := netutil.ClientIP(c.Request)
	fields := log.Fields{
		"request_id": rid,
		"method":     c.Request.Method,
		"path":       path,
		"ip":         netutil.IPString(ip),
		"source":     netutil.ClassifySource(ip),
	}
	for k, v := range extras {
		fields[k] = v
	}
	return log.WithFields(fields)
}

// DurationMS converts a duration to integer milliseconds for logging.
func DurationMS(d time.Duration) int64 { return d.Milliseconds() }
