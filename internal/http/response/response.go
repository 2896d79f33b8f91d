package response

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/ctxutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError renders err through the error envelope. Errors that are not
// an *apierr.Error become an opaque 500 and are logged.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		if log != nil {
			log.Error("Unhandled request error", append([]interface{}{"path", c.FullPath(), "error", err}, ctxutil.LogFields(c.Request.Context())...)...)
		}
		ae = apierr.Internal("", errors.New("internal server error"))
	}
	if ae.Status >= http.StatusInternalServerError && log != nil && ae.Err != nil {
		log.Error("Request failed", append([]interface{}{"path", c.FullPath(), "code", ae.Code, "error", ae.Err}, ctxutil.LogFields(c.Request.Context())...)...)
	}
	_ = c.Error(ae)
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: ae.Error(),
			Code:    ae.Code,
			Fields:  ae.Fields,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated is the list envelope. next and previous are absolute URLs of the
// neighbouring pages or null.
type Paginated[V any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []V     `json:"results"`
}

func RespondPage[V any](c *gin.Context, base string, p *services.Page[V]) {
	out := Paginated[V]{Count: p.Count, Results: p.Items}
	if out.Results == nil {
		out.Results = []V{}
	}
	if p.HasNext {
		out.Next = pageURL(c, base, p.Page+1)
	}
	if p.HasPrevious {
		out.Previous = pageURL(c, base, p.Page-1)
	}
	c.JSON(http.StatusOK, out)
}

// pageURL rewrites the current request URL to point at page. The first page
// drops the parameter entirely.
func pageURL(c *gin.Context, base string, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	origin := base
	if origin == "" {
		origin = RequestOrigin(c.Request)
	}
	s := origin + (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
	return &s
}

// RequestOrigin is scheme://host of r, honouring X-Forwarded-Proto.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
