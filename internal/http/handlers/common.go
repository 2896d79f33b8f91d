package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

// MaxUploadBytes caps a single uploaded image.
const MaxUploadBytes = 10 << 20

const CodeParseError = "parse_error"

// reservedParams are list query parameters that are never column filters.
var reservedParams = map[string]bool{"page": true, "search": true, "ordering": true, "format": true}

// pathID parses the :id parameter. A malformed id cannot name any row, so it
// is reported as not found.
func pathID(c *gin.Context, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apierr.NotFound(what)
	}
	return id, nil
}

func listParams(c *gin.Context) (services.ListParams, error) {
	p := services.ListParams{
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: strings.TrimSpace(c.Query("ordering")),
		Filters:  map[string]string{},
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, apierr.InvalidPage()
		}
		p.Page = page
	}
	for k, vs := range c.Request.URL.Query() {
		if reservedParams[k] || len(vs) == 0 {
			continue
		}
		p.Filters[k] = vs[0]
	}
	return p, nil
}

func isMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == binding.MIMEMultipartPOSTForm || ct == binding.MIMEPOSTForm
}

// bindInput decodes a JSON or form body into in. Field-level decode failures
// become validation errors on that field.
func bindInput(c *gin.Context, in any) error {
	var err error
	if isMultipart(c) {
		err = c.ShouldBindWith(in, binding.Form)
	} else {
		if c.Request.ContentLength == 0 {
			return nil
		}
		err = c.ShouldBindWith(in, binding.JSON)
	}
	if err == nil {
		return nil
	}
	var fe *normalization.FieldError
	if errors.As(err, &fe) {
		return apierr.Validation(fe.Field, fe.Message())
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return apierr.Validation(ute.Field, fmt.Sprintf("expected %s", ute.Type.String()))
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return apierr.Validation("non_field_errors", "a valid integer is required")
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return apierr.New(http.StatusBadRequest, CodeParseError, fmt.Errorf("malformed request body: %w", err))
}

// formUpload reads an optional file part. It returns nil when the part is
// absent or the body is not multipart.
func formUpload(c *gin.Context, field string) (*services.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Validation(field, "the submitted data was not a file")
	}
	if fh.Size > MaxUploadBytes {
		return nil, apierr.Validation(field, fmt.Sprintf("file exceeds %d MB", MaxUploadBytes>>20))
	}
	data, err := readFileHeader(fh)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apierr.Validation(field, "the submitted file is empty")
	}
	return &services.Upload{Filename: fh.Filename, Data: data}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
}

func isPartial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
