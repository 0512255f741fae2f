// Package response writes the JSON envelope every BFF route answers with.
package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// JSON writes body with the given status. An encoding failure is only logged:
// the status line has already gone out.
func JSON(w http.ResponseWriter, statusCode int, body any) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write storefront response", slog.String("error", err.Error()))
	}
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	JSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// Error maps err onto the envelope. Anything that is not an AppError becomes
// a 500 without leaking its text to the browser.
func Error(w http.ResponseWriter, err error) {

	appErr, ok := errors.IsAppError(err)
	if !ok {
		JSON(w, http.StatusInternalServerError, APIResponse{Error: &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "The storefront could not complete the request",
		}})

		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}

	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	JSON(w, appErr.StatusCode, APIResponse{Error: body})
}

// ValidationError answers 400 with one line per rejected field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	details := make([]string, 0, len(errs))

	for _, err := range errs {
		details = append(details, fieldMessage(err))
	}

	JSON(w, http.StatusBadRequest, APIResponse{Error: &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Some fields are missing or invalid",
		Details: details,
	}})
}

func fieldMessage(err validator.FieldError) string {

	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s is not an email address", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be %s or more", field, err.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be %s or less", field, err.Param())
	case "gt":
		return fmt.Sprintf("%s must be above %s", field, err.Param())
	case "lt":
		return fmt.Sprintf("%s must be below %s", field, err.Param())
	default:
		return fmt.Sprintf("%s failed the %s check", field, err.Tag())
	}
}
