package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	riskdomain "github.com/james21411/Projet-scolapp-sub004/internal/risk/domain"
	studentdomain "github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	transferdomain "github.com/james21411/Projet-scolapp-sub004/internal/transfer/domain"
)

// APIError is the JSON error envelope returned to callers.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

// Bad requests: the caller sent something malformed.
var validationErrors = []error{
	feestructuredomain.ErrInvalidClassName,
	feestructuredomain.ErrInvalidSchoolYear,
	feestructuredomain.ErrNegativeAmount,
	feestructuredomain.ErrTotalMismatch,
	feestructuredomain.ErrInvalidInstallment,
	paymentdomain.ErrInvalidStudent,
	paymentdomain.ErrInvalidSchoolYear,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	paymentdomain.ErrAllocationExceedsPay,
	paymentdomain.ErrInvalidAllocation,
	balancedomain.ErrInvalidSchoolYear,
	balancedomain.ErrInvalidClassName,
	riskdomain.ErrInvalidRate,
	riskdomain.ErrInvalidBand,
	transferdomain.ErrInvalidClass,
	transferdomain.ErrSameClass,
}

var notFoundErrors = []error{
	feestructuredomain.ErrNotFound,
	paymentdomain.ErrPaymentNotFound,
	studentdomain.ErrStudentNotFound,
}

// Administrative setup defects, distinct from bad requests.
var configurationErrors = []error{
	riskdomain.ErrNoBands,
	riskdomain.ErrUnclassified,
	transferdomain.ErrMissingFeeStructure,
}

// AbortWithError maps domain errors onto HTTP statuses and writes the JSON
// envelope.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case matchesAny(err, validationErrors):
		status = http.StatusBadRequest
		code = err.Error()
	case matchesAny(err, notFoundErrors):
		status = http.StatusNotFound
		code = err.Error()
	case matchesAny(err, configurationErrors):
		status = http.StatusConflict
		code = err.Error()
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": &APIError{Status: status, Code: code, Message: message}})
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
