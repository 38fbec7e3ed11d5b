package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	billdomain "github.com/introaqua/waterworks/internal/bill/domain"
	newsdomain "github.com/introaqua/waterworks/internal/news/domain"
	paymentdomain "github.com/introaqua/waterworks/internal/payment/domain"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
	reportdomain "github.com/introaqua/waterworks/internal/report/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, reportdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isAuthValidationError(err),
		isBillValidationError(err),
		isReportValidationError(err),
		isNewsValidationError(err),
		isPricingValidationError(err),
		isPaymentValidationError(err):
		return true
	default:
		return false
	}
}

func isAuthValidationError(err error) bool {
	switch {
	case errors.Is(err, authdomain.ErrInvalidUsername),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, authdomain.ErrInvalidFullName),
		errors.Is(err, authdomain.ErrInvalidPhone):
		return true
	default:
		return false
	}
}

func isBillValidationError(err error) bool {
	switch {
	case errors.Is(err, billdomain.ErrInvalidCustomer),
		errors.Is(err, billdomain.ErrInvalidPeriod),
		errors.Is(err, billdomain.ErrInvalidDueDate),
		errors.Is(err, billdomain.ErrReadingsOutOfOrder),
		errors.Is(err, billdomain.ErrInvalidStatus),
		errors.Is(err, billdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isReportValidationError(err error) bool {
	switch {
	case errors.Is(err, reportdomain.ErrInvalidType),
		errors.Is(err, reportdomain.ErrInvalidPriority),
		errors.Is(err, reportdomain.ErrInvalidTitle),
		errors.Is(err, reportdomain.ErrInvalidDescription),
		errors.Is(err, reportdomain.ErrInvalidLocation),
		errors.Is(err, reportdomain.ErrInvalidStatus),
		errors.Is(err, reportdomain.ErrInvalidResolution),
		errors.Is(err, reportdomain.ErrInvalidAssignee),
		errors.Is(err, reportdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNewsValidationError(err error) bool {
	switch {
	case errors.Is(err, newsdomain.ErrInvalidTitle),
		errors.Is(err, newsdomain.ErrInvalidSummary),
		errors.Is(err, newsdomain.ErrInvalidContent),
		errors.Is(err, newsdomain.ErrInvalidCategory),
		errors.Is(err, newsdomain.ErrInvalidStatus),
		errors.Is(err, newsdomain.ErrInvalidAudience),
		errors.Is(err, newsdomain.ErrInvalidPriority),
		errors.Is(err, newsdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isPricingValidationError(err error) bool {
	switch {
	case errors.Is(err, pricingdomain.ErrInvalidCode),
		errors.Is(err, pricingdomain.ErrInvalidName),
		errors.Is(err, pricingdomain.ErrInvalidPrice),
		errors.Is(err, pricingdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrInvalidItems),
		errors.Is(err, paymentdomain.ErrInvalidTotal),
		errors.Is(err, paymentdomain.ErrInvalidShipping):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrUserInactive):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, billdomain.ErrStatusTransition),
		errors.Is(err, billdomain.ErrNumberConflict),
		errors.Is(err, reportdomain.ErrStatusTransition),
		errors.Is(err, reportdomain.ErrNumberConflict),
		errors.Is(err, newsdomain.ErrSlugConflict),
		errors.Is(err, pricingdomain.ErrCodeConflict):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, billdomain.ErrNotFound),
		errors.Is(err, reportdomain.ErrNotFound),
		errors.Is(err, newsdomain.ErrNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrOrderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog folds handler errors into the coarse type/code
// pair attached to access log entries.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal", payload.Type
	}
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	return payload.Type, payload.Type
}
