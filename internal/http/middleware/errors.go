package middleware

import "github.com/gin-gonic/gin"

const ctxKeyPlainErrors = "errors.plain"

// UsePlainErrors makes every rejection written by this package for the
// current request use a bare {"error": message} body instead of the
// standard envelope. Set it before the rejecting middleware runs.
func UsePlainErrors(c *gin.Context) {
	c.Set(ctxKeyPlainErrors, true)
}

// PlainErrors reports whether UsePlainErrors was called for this request.
func PlainErrors(c *gin.Context) bool {
	return c.GetBool(ctxKeyPlainErrors)
}

// abortError aborts with status and either the standard envelope or the
// bare form.
func abortError(c *gin.Context, status int, code, message string) {
	if PlainErrors(c) {
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    message,
	})
}
