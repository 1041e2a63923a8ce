package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validation error codes, keyed by field in a ValidationBody. Callers correct
// their input and retry; these are never used for storage failures.
const (
	CodeSlugExists   = "SLUG_EXISTS"
	CodeEmailExists  = "EMAIL_EXISTS"
	CodeEmailInvalid = "EMAIL_INVALID"
	CodeNameInvalid  = "NAME_INVALID"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ValidationBody is the envelope for aggregated validation failures: one
// reason code per offending field.
type ValidationBody struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// ValidationFailed sends 400 with field-keyed reason codes.
func ValidationFailed(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationBody{Success: false, Errors: errs})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, err string) {
	c.JSON(http.StatusTooManyRequests, Body{Success: false, Error: err})
}

// Internal sends 500. The message is generic on purpose: storage detail never
// reaches the client.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}
