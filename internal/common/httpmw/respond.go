package httpmw

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Timestamp time.Time           `json:"timestamp"`
	Status    int                 `json:"status"`
	Error     string              `json:"error"`
	Message   string              `json:"message"`
	Path      string              `json:"path"`
	Fields    []errors.FieldError `json:"fields,omitempty"`
}

// RespondError writes a failed request's error body. AppError codes and
// statuses pass through; anything else becomes a 500 with its cause logged.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	appErr := errors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    appErr.HTTPStatus,
		Error:     http.StatusText(appErr.HTTPStatus),
		Message:   appErr.Message,
		Path:      c.Request.URL.Path,
		Fields:    appErr.Fields,
	})
}

// RespondBindingError converts a request binding failure into a validation
// error response with per-field messages where available.
func RespondBindingError(c *gin.Context, log *logger.Logger, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make([]errors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, errors.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		RespondError(c, log, errors.Validation(fields))
		return
	}

	RespondError(c, log, errors.BadRequest("invalid request body"))
}

// fieldMessage renders a human-readable message for a single failed rule.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
