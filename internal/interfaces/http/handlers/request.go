package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/language"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/shared/errors"
)

// flashKey holds notices that survive one redirect, such as the result of a
// provider return URL.
const flashKey = "messages"

const maxFormBytes = 64 << 10

// presaleScope returns the event and session set by the presale middleware.
func presaleScope(c *gin.Context) (*common.EventScope, *payment.Session, error) {
	scope := middleware.GetEventScope(c)
	session := middleware.GetCheckoutSession(c)
	if scope == nil || session == nil {
		return nil, nil, errors.NewInternalError("presale context missing")
	}
	return scope, session, nil
}

// paymentRequest builds the provider view of the current request. data is
// the submitted form, nil for reads.
func paymentRequest(c *gin.Context, scope *common.EventScope, session *payment.Session, data url.Values, baseURL string) *payment.Request {
	locale := requestLocale(c, scope.Event.Locale())
	if data == nil {
		data = url.Values{}
	}
	return &payment.Request{
		Ctx:      c.Request.Context(),
		Event:    scope.PaymentEvent(locale),
		Session:  session,
		Data:     data,
		Messages: &payment.Messages{},
		Locale:   locale,
		BaseURL:  baseURL,
	}
}

// requestLocale prefers an explicit ?locale=, then the first Accept-Language
// entry, then the event locale.
func requestLocale(c *gin.Context, fallback string) string {
	if q := c.Query("locale"); q != "" {
		if tag, err := language.Parse(q); err == nil {
			return tag.String()
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language")); err == nil && len(tags) > 0 {
		if base, conf := tags[0].Base(); conf != language.No {
			return base.String()
		}
	}
	return fallback
}

// formData reads a submitted form either url-encoded or as a flat JSON
// object of strings.
func formData(c *gin.Context) (url.Values, error) {
	if c.ContentType() == binding.MIMEJSON {
		var fields map[string]string
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, errors.NewValidationError("invalid request body", err.Error())
		}
		out := make(url.Values, len(fields))
		for k, v := range fields {
			out.Set(k, v)
		}
		return out, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	if err := c.Request.ParseForm(); err != nil {
		return nil, errors.NewValidationError("invalid form data", err.Error())
	}
	return c.Request.PostForm, nil
}

// pushFlash keeps messages for the next page the visitor sees.
func pushFlash(session *payment.Session, messages []payment.Message) {
	if len(messages) == 0 {
		return
	}
	all := append(popFlash(session), messages...)
	raw, err := json.Marshal(all)
	if err != nil {
		return
	}
	session.Set(flashKey, string(raw))
}

func popFlash(session *payment.Session) []payment.Message {
	raw, ok := session.Get(flashKey)
	if !ok {
		return nil
	}
	session.Delete(flashKey)
	var out []payment.Message
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
