package logging

// StatusKind normalizes response status codes into a short label for logs/metrics.
func StatusKind(status int) string {
	switch {
	case status == 0:
		return "none"
	case status == 401:
		return "http_401"
	case status == 403:
		return "http_403"
	case status == 429:
		return "http_429"
	case status >= 500 && status < 600:
		return "http_5xx"
	case status >= 400 && status < 500:
		return "http_4xx"
	}
	return "ok"
}
