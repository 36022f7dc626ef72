package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Machine-readable error codes.
const (
	CodeValidation     = "validation"
	CodeAuthentication = "authentication"
	CodeAuthorization  = "authorization"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeRateLimited    = "rate_limited"
	CodeReadOnly       = "read_only"
	CodeInternal       = "internal"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeValidation})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondError maps a store error to its status code by kind. Errors of
// no known kind are treated as internal.
func respondError(c *gin.Context, err error, context string) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		respondInternalError(c, err, context)
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, entities.ErrAuthentication):
		return http.StatusUnauthorized, CodeAuthentication
	case errors.Is(err, entities.ErrAuthorization):
		return http.StatusForbidden, CodeAuthorization
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
