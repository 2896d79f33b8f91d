package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

func serve(t *testing.T, target string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/sermons/", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRespondAPIErrorEnvelope(t *testing.T) {
	rec := serve(t, "/api/sermons/", func(c *gin.Context) {
		RespondAPIError(c, logger.Nop(), apierr.Validation("price", "bad price"))
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeValidation, body.Error.Code)
	assert.Equal(t, []string{"bad price"}, body.Error.Fields["price"])
}

func TestRespondAPIErrorHidesInternalErrors(t *testing.T) {
	rec := serve(t, "/api/sermons/", func(c *gin.Context) {
		RespondAPIError(c, logger.Nop(), errors.New("pq: connection refused"))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRespondPageLinks(t *testing.T) {
	rec := serve(t, "/api/sermons/?page=2&search=grace", func(c *gin.Context) {
		RespondPage(c, "https://church.example", &services.Page[int]{
			Items: []int{1}, Count: 25, Page: 2, PageSize: 10, HasNext: true, HasPrevious: true,
		})
	})
	var body Paginated[int]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 25, body.Count)
	require.NotNil(t, body.Next)
	require.NotNil(t, body.Previous)
	assert.Equal(t, "https://church.example/api/sermons/?page=3&search=grace", *body.Next)
	assert.Equal(t, "https://church.example/api/sermons/?search=grace", *body.Previous)
}

func TestRespondPageEmpty(t *testing.T) {
	rec := serve(t, "/api/sermons/", func(c *gin.Context) {
		RespondPage(c, "", &services.Page[int]{Page: 1, PageSize: 10})
	})
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, rec.Body.String())
}
