package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"surveyforge/internal/gforms"
	"surveyforge/internal/service"
	"surveyforge/internal/transport/rest/middleware"
)

// ProvisionHandler turns drafts into live forms
type ProvisionHandler struct {
	provisionSvc *service.ProvisionService
}

// NewProvisionHandler creates a new provision handler
func NewProvisionHandler(provisionSvc *service.ProvisionService) *ProvisionHandler {
	return &ProvisionHandler{provisionSvc: provisionSvc}
}

// Provision handles POST /v1/surveys/{surveyId}/provision
func (h *ProvisionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	survey, err := h.provisionSvc.ProvisionNotion(r.Context(), hostID, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// AppsScript handles GET /v1/surveys/{surveyId}/apps-script.
// ?format=raw returns the script as plain JavaScript.
func (h *ProvisionHandler) AppsScript(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	script, err := h.provisionSvc.AppsScript(r.Context(), hostID, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "raw" {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(script))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"script":       script,
		"exportScript": gforms.ExportScript,
	})
}
