package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"surveyforge/internal/model"
	"surveyforge/internal/service"
)

// PublicFormHandler serves provisioned forms to respondents
type PublicFormHandler struct {
	responseSvc *service.ResponseService
}

// NewPublicFormHandler creates a new public form handler
func NewPublicFormHandler(responseSvc *service.ResponseService) *PublicFormHandler {
	return &PublicFormHandler{responseSvc: responseSvc}
}

// Get handles GET /v1/public/forms/{databaseId}
func (h *PublicFormHandler) Get(w http.ResponseWriter, r *http.Request) {
	databaseID := mux.Vars(r)["databaseId"]

	form, err := h.responseSvc.FormSchema(r.Context(), databaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Submit handles POST /v1/public/forms/{databaseId}/responses
func (h *PublicFormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	databaseID := mux.Vars(r)["databaseId"]

	var req model.Submission
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.responseSvc.Submit(r.Context(), databaseID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
