package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

var registerOnce sync.Once

// RegisterValidation makes binding errors report JSON field names.
func RegisterValidation() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(f reflect.StructField) string {
				name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

// respondError maps err onto a status code and JSON body. Internal causes
// are attached to the gin context for the request logger and never sent
// to the client.
func respondError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]apperrors.FieldError, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	status := apperrors.HTTPStatus(appErr.Code)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: appErr.Message, Fields: appErr.Fields})
}

// respondBindError answers a body that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	}
	return "is invalid"
}

func currentPrincipal(c *gin.Context) (authz.Principal, bool) {
	p, ok := authz.FromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return authz.Principal{}, false
	}
	return p, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.Validation(apperrors.FieldError{Field: name, Message: "must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads page and limit; absent values take the defaults, out of
// range values are clamped.
func pageQuery(c *gin.Context) (models.PageRequest, bool) {
	var bad []apperrors.FieldError
	intQuery := func(key string) int {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			bad = append(bad, apperrors.FieldError{Field: key, Message: "must be an integer"})
		}
		return n
	}
	page, limit := intQuery("page"), intQuery("limit")
	if len(bad) > 0 {
		respondError(c, apperrors.Validation(bad...))
		return models.PageRequest{}, false
	}
	return models.NewPageRequest(page, limit), true
}
