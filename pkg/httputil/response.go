package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// RequestIDKey is the gin context key holding the request's correlation id.
const RequestIDKey = "hospital.request_id"

// RequestID returns the correlation id set by the request-id middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed binding rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Status: "error", Message: message}
}

// RespondWithError writes err using its AppError status, or 500 for anything else.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		status := appErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logServerError(c, err)
			c.AbortWithStatusJSON(status, NewErrorResponse("internal server error"))
			return
		}
		c.AbortWithStatusJSON(status, NewErrorResponse(appErr.Message))
		return
	}

	logServerError(c, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}

// RespondWithBindError reports a ShouldBind failure as a 400 with per-field detail.
func RespondWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Status:  "error",
			Message: "validation failed",
			Errors:  fields,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse("invalid request body: "+err.Error()))
}

func RespondNotFound(c *gin.Context, resource string) {
	RespondWithError(c, apperrors.NotFound(resource))
}

// RespondList writes items as a JSON array, never null.
func RespondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// IDQuery parses a positive integer query parameter.
func IDQuery(c *gin.Context, name, resource string) (int, bool) {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(fmt.Sprintf("invalid %s ID", resource)))
		return 0, false
	}
	return id, true
}

// TimeQuery parses an RFC 3339 query parameter.
func TimeQuery(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, c.Query(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(fmt.Sprintf("invalid %s, expected RFC 3339", name)))
		return time.Time{}, false
	}
	return t, true
}

// IDParam parses a positive integer path parameter.
func IDParam(c *gin.Context, name, resource string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(fmt.Sprintf("invalid %s ID", resource)))
		return 0, false
	}
	return id, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "phone":
		return "invalid phone number"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "appointmentstatus", "invoicestatus", "userrole":
		return "unsupported value"
	default:
		return fe.Error()
	}
}

func logServerError(c *gin.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("request_id", RequestID(c)).
		Msg("request failed")
}
