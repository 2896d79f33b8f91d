package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

func testContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestListParams(t *testing.T) {
	c := testContext(httptest.NewRequest(http.MethodGet, "/api/sermons/?page=2&search=grace&ordering=-date&preacher=Mensah", nil))
	p, err := listParams(c)
	if err != nil {
		t.Fatalf("listParams: %v", err)
	}
	if p.Page != 2 || p.Search != "grace" || p.Ordering != "-date" {
		t.Fatalf("unexpected params: %+v", p)
	}
	if len(p.Filters) != 1 || p.Filters["preacher"] != "Mensah" {
		t.Fatalf("unexpected filters: %v", p.Filters)
	}

	for _, raw := range []string{"0", "-1", "two"} {
		c = testContext(httptest.NewRequest(http.MethodGet, "/api/sermons/?page="+raw, nil))
		_, err := listParams(c)
		ae, ok := apierr.As(err)
		if !ok || ae.Code != apierr.CodeInvalidPage {
			t.Fatalf("page=%s: expected invalid_page, got %v", raw, err)
		}
	}
}

func TestPathIDMalformedIsNotFound(t *testing.T) {
	c := testContext(httptest.NewRequest(http.MethodGet, "/api/events/x/", nil))
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	if _, err := pathID(c, "id", "event"); !apierr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBindInputJSON(t *testing.T) {
	c := testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Guide","price":"12.345"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	var in services.ResourceInput
	err := bindInput(c, &in)
	ae, ok := apierr.As(err)
	if !ok || ae.Status != http.StatusBadRequest || len(ae.Fields["price"]) != 1 {
		t.Fatalf("expected price field error, got %v", err)
	}

	c = testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"likes":"many"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	var sermon services.SermonInput
	ae, ok = apierr.As(bindInput(c, &sermon))
	if !ok || len(ae.Fields["likes"]) != 1 {
		t.Fatalf("expected likes field error, got %v", ae)
	}

	c = testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`)))
	c.Request.Header.Set("Content-Type", "application/json")
	ae, ok = apierr.As(bindInput(c, &sermon))
	if !ok || ae.Code != CodeParseError {
		t.Fatalf("expected parse error, got %v", ae)
	}

	c = testContext(httptest.NewRequest(http.MethodPatch, "/", nil))
	if err := bindInput(c, &sermon); err != nil {
		t.Fatalf("empty body should bind to nothing: %v", err)
	}
}

func TestBindInputFormAndUpload(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("name", "Harvest night")
	_ = mw.WriteField("days", "3")
	part, _ := mw.CreateFormFile("flyer", "flyer.png")
	_, _ = part.Write([]byte("bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c := testContext(req)

	var in services.EventInput
	if err := bindInput(c, &in); err != nil {
		t.Fatalf("bindInput: %v", err)
	}
	if in.Name == nil || *in.Name != "Harvest night" || in.Days == nil || *in.Days != 3 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Location != nil {
		t.Fatalf("absent fields must stay nil")
	}
	if err := AttachEventFlyer(c, &in); err != nil {
		t.Fatalf("AttachEventFlyer: %v", err)
	}
	if in.Flyer == nil || in.Flyer.Filename != "flyer.png" || string(in.Flyer.Data) != "bytes" {
		t.Fatalf("unexpected upload: %+v", in.Flyer)
	}

	up, err := formUpload(c, "thumbnail")
	if err != nil || up != nil {
		t.Fatalf("missing part should be nil, got %v %v", up, err)
	}
}

func TestIsPartial(t *testing.T) {
	if !isPartial(testContext(httptest.NewRequest(http.MethodPatch, "/", nil))) {
		t.Fatalf("PATCH is partial")
	}
	if isPartial(testContext(httptest.NewRequest(http.MethodPut, "/", nil))) {
		t.Fatalf("PUT is not partial")
	}
}
