package middleware

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	redacted        = "REDACTED"
	resetPathPrefix = "/api/auth/reset-password/"
	tokenQueryParam = "token"
)

// RedactedLogger is gin's access log with credentials carried in the URL
// (the websocket ?token= and the reset token path segment) masked out.
func RedactedLogger(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
				p.TimeStamp.Format("2006/01/02 - 15:04:05"),
				p.StatusCode,
				p.Latency,
				p.ClientIP,
				p.Method,
				redactPath(p.Path),
				p.ErrorMessage,
			)
		},
	})
}

func redactPath(path string) string {
	rawPath, rawQuery, hasQuery := strings.Cut(path, "?")

	if rest, ok := strings.CutPrefix(rawPath, resetPathPrefix); ok && rest != "" {
		rawPath = resetPathPrefix + redacted
	}

	if !hasQuery {
		return rawPath
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		// unparseable queries are dropped rather than risk leaking them
		return rawPath + "?" + redacted
	}
	if _, ok := query[tokenQueryParam]; ok {
		query.Set(tokenQueryParam, redacted)
	}
	return rawPath + "?" + query.Encode()
}
