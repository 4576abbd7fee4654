package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/medical-calendar-api/internal/config"
)

const requestIDHeader = "X-Request-Id"

// RequestID проставляет идентификатор запроса, если клиент его не прислал
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set("requestId", requestID)
		ctx.Header(requestIDHeader, requestID)
		ctx.Next()
	}
}

func BasicAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range cfg.Auth.BasicClients {
			usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if usernameMatch && passwordMatch {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
