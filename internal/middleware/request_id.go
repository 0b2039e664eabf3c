package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation ID, minting one when the
// client didn't send its own.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		ctx.Set("request_id", id)
		ctx.Writer.Header().Set(RequestIDHeader, id)
		ctx.Next()
	}
}
