package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"surveyforge/internal/cache"
	"surveyforge/internal/config"
	"surveyforge/internal/gforms"
	"surveyforge/internal/jobs"
	"surveyforge/internal/model"
	"surveyforge/internal/notion"
	"surveyforge/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeBody reads a JSON body into v and runs struct validation on it.
// On failure it writes a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// statusFor maps service and upstream errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrSurveyNotFound),
		errors.Is(err, service.ErrResponseNotFound),
		errors.Is(err, cache.ErrFormNotFound),
		errors.Is(err, jobs.ErrFormGone):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSurveyProvisioned):
		return http.StatusConflict
	case errors.Is(err, service.ErrMissingRequiredAnswer),
		errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrInvalidTopic),
		errors.Is(err, service.ErrSchemaBuild),
		errors.Is(err, model.ErrEmptyQuestionText),
		errors.Is(err, gforms.ErrEmptyExport),
		errors.Is(err, gforms.ErrInvalidExport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAIUpstream), errors.Is(err, service.ErrAIMalformed):
		return http.StatusBadGateway
	case errors.Is(err, notion.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, notion.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, notion.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, notion.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, notion.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, notion.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Unmapped errors are
// logged and reported without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] unhandled error: %v", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
