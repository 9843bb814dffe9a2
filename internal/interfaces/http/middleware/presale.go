package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

const (
	ContextKeyEventScope      = "event_scope"
	ContextKeyCheckoutSession = "checkout_session"
)

// EventLookup resolves organizer and event slugs.
type EventLookup interface {
	BySlugs(ctx context.Context, organizerSlug, eventSlug string) (*common.EventScope, error)
}

// CheckoutSessions opens and persists checkout sessions.
type CheckoutSessions interface {
	Open(ctx context.Context, id string) (*payment.Session, error)
	Save(ctx context.Context, s *payment.Session) error
}

type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Presale resolves the event named by the :organizer and :event path
// parameters and opens the visitor's checkout session. The session is
// written back before the response goes out; when that fails the visitor
// gets a 503 instead of the handler's response.
func Presale(events EventLookup, sessions CheckoutSessions, cookie SessionCookie, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		scope, err := events.BySlugs(ctx, c.Param("organizer"), c.Param("event"))
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		id, _ := c.Cookie(cookie.Name)
		session, err := sessions.Open(ctx, id)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, session.ID(), int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		c.Set(ContextKeyEventScope, scope)
		c.Set(ContextKeyCheckoutSession, session)

		w := &sessionWriter{ResponseWriter: c.Writer, save: func() error {
			err := sessions.Save(ctx, session)
			if err != nil {
				log.Errorw("failed to persist checkout session",
					"route", c.FullPath(),
					"method", c.Request.Method,
					"error", err)
			}
			return err
		}}
		c.Writer = w

		c.Next()

		w.commit()
	}
}

// sessionWriter saves the checkout session once, right before the first
// byte or the header is written.
type sessionWriter struct {
	gin.ResponseWriter
	save      func() error
	committed bool
	failed    bool
}

// commit reports whether the handler's response may go out.
func (w *sessionWriter) commit() bool {
	if !w.committed {
		w.committed = true
		if w.ResponseWriter.Written() {
			return true
		}
		if err := w.save(); err != nil {
			w.failed = true
			w.unavailable()
		}
	}
	return !w.failed
}

func (w *sessionWriter) unavailable() {
	h := w.Header()
	h.Del("Location")
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusServiceUnavailable)

	body, _ := json.Marshal(utils.APIResponse{
		Success: false,
		Error: &utils.ErrorInfo{
			Type:    string(apperrors.ErrorTypeUnavailable),
			Message: "your checkout session could not be saved, please try again",
		},
	})
	_, _ = w.ResponseWriter.Write(body)
}

func (w *sessionWriter) WriteHeaderNow() {
	if w.commit() {
		w.ResponseWriter.WriteHeaderNow()
	}
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.commit() {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	if !w.commit() {
		return len(s), nil
	}
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) Flush() {
	if w.commit() {
		w.ResponseWriter.Flush()
	}
}

// IsSecureURL reports whether cookies for baseURL should be marked secure.
func IsSecureURL(baseURL string) bool {
	return strings.HasPrefix(strings.ToLower(baseURL), "https://")
}

// GetEventScope returns the event set by Presale or ControlEvent.
func GetEventScope(c *gin.Context) *common.EventScope {
	v, ok := c.Get(ContextKeyEventScope)
	if !ok {
		return nil
	}
	scope, _ := v.(*common.EventScope)
	return scope
}

// GetCheckoutSession returns the session opened by Presale.
func GetCheckoutSession(c *gin.Context) *payment.Session {
	v, ok := c.Get(ContextKeyCheckoutSession)
	if !ok {
		return nil
	}
	s, _ := v.(*payment.Session)
	return s
}
