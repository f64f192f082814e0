package utils

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes and validates the request body into req. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		RespondError(c, http.StatusInternalServerError, err)
		return false
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		RespondError(c, http.StatusBadRequest, errors.New(FormatValidationErrors(verrs)))
		return false
	}

	RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	return false
}

// FormatValidationErrors flattens field errors into a stable one-line message.
func FormatValidationErrors(verrs validator.ValidationErrors) string {
	byField := make(map[string][]string)
	for _, ferr := range verrs {
		msg := ferr.Tag()
		if ferr.Param() != "" {
			msg += "=" + ferr.Param()
		}
		byField[ferr.Field()] = append(byField[ferr.Field()], msg)
	}

	fields := make([]string, 0, len(byField))
	for f := range byField {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(byField[f], ","))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
