package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/infrastructure/auth"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

const (
	ContextKeyControlOperator  = "control_operator"
	ContextKeyControlOrganizer = "control_organizer"
)

// ControlAuth accepts the configured control token itself or a JWT signed
// with it. An empty token disables the control API.
type ControlAuth struct {
	token  string
	tokens *auth.ControlTokenService
	logger logger.Interface
}

func NewControlAuth(token string, log logger.Interface) *ControlAuth {
	return &ControlAuth{token: token, tokens: auth.NewControlTokenService(token), logger: log}
}

func (m *ControlAuth) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.token == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "control API is disabled")
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) == 1 {
			c.Next()
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Warnw("rejected control API token", "client_ip", c.ClientIP(), "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization token")
			c.Abort()
			return
		}
		c.Set(ContextKeyControlOperator, claims.Operator)
		if claims.Organizer != "" {
			c.Set(ContextKeyControlOrganizer, claims.Organizer)
		}
		c.Next()
	}
}

// ControlEvent resolves the event of a control API route. Tokens bound to
// an organizer only reach that organizer's events.
func ControlEvent(events EventLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		organizer := c.Param("organizer")
		if bound := c.GetString(ContextKeyControlOrganizer); bound != "" && bound != organizer {
			utils.ErrorResponse(c, http.StatusForbidden, "token is not valid for this organizer")
			c.Abort()
			return
		}

		scope, err := events.BySlugs(c.Request.Context(), organizer, c.Param("event"))
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		c.Set(ContextKeyEventScope, scope)
		c.Next()
	}
}
