package middleware

import (
	"net/http"
	"time"
)

// Timeout caps every request. Responses here are small JSON documents, so
// anything that runs long is a stuck database call rather than a slow
// payload; 15s leaves generous room over the pool's own deadlines.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	message := `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
