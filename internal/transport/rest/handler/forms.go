package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"surveyforge/internal/cache"
	"surveyforge/internal/model"
	"surveyforge/internal/service"
	"surveyforge/internal/transport/rest/middleware"
)

const (
	defaultResponseLimit = 50
	defaultTopLimit      = 10
)

// WatcherCounter reports how many dashboards watch a form live
type WatcherCounter interface {
	Watchers(formID string) int
}

// FormsHandler serves the host's dashboard: provisioned forms, their
// responses and analyses, and the email history
type FormsHandler struct {
	metadata    cache.MetadataStore
	counter     cache.ResponseCounter
	responseSvc *service.ResponseService
	analysisSvc *service.AnalysisService
	watchers    WatcherCounter
}

// NewFormsHandler creates a new forms handler
func NewFormsHandler(
	metadata cache.MetadataStore,
	counter cache.ResponseCounter,
	responseSvc *service.ResponseService,
	analysisSvc *service.AnalysisService,
	watchers WatcherCounter,
) *FormsHandler {
	return &FormsHandler{
		metadata:    metadata,
		counter:     counter,
		responseSvc: responseSvc,
		analysisSvc: analysisSvc,
		watchers:    watchers,
	}
}

// FormSummary is a form's metadata plus its live response count
type FormSummary struct {
	model.FormMetadata
	ResponseCount int64 `json:"responseCount"`
}

// FormDetail is a form's metadata plus its open dashboard connections
type FormDetail struct {
	*model.FormMetadata
	Watchers int `json:"watchers"`
}

// List handles GET /v1/forms
func (h *FormsHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forms, err := h.metadata.ListForms(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	counts, err := h.counter.Counts(r.Context(), hostID)
	if err != nil {
		log.Printf("[Forms] Warning: response counts unavailable for %s: %v", hostID, err)
	}

	out := make([]FormSummary, len(forms))
	for i, f := range forms {
		out[i] = FormSummary{FormMetadata: f, ResponseCount: counts[f.ID]}
	}

	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /v1/forms/{formId}
func (h *FormsHandler) Get(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	formID := mux.Vars(r)["formId"]

	form, err := h.metadata.GetForm(r.Context(), hostID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	detail := FormDetail{FormMetadata: form}
	if h.watchers != nil {
		detail.Watchers = h.watchers.Watchers(formID)
	}

	writeJSON(w, http.StatusOK, detail)
}

// Responses handles GET /v1/forms/{formId}/responses
func (h *FormsHandler) Responses(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	formID := mux.Vars(r)["formId"]

	limit := queryLimit(r, defaultResponseLimit)

	rows, err := h.responseSvc.ListMirrored(r.Context(), hostID, formID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []model.ResponseRow{}
	}

	if total, err := h.responseSvc.CountMirrored(r.Context(), hostID, formID); err != nil {
		log.Printf("[Forms] Warning: response total unavailable for %s: %v", formID, err)
	} else {
		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	}

	writeJSON(w, http.StatusOK, rows)
}

// Response handles GET /v1/forms/{formId}/responses/{responseId}
func (h *FormsHandler) Response(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	vars := mux.Vars(r)

	row, err := h.responseSvc.GetMirrored(r.Context(), hostID, vars["formId"], vars["responseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// Top handles GET /v1/forms/top, the host's forms ranked by submissions
func (h *FormsHandler) Top(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	top, err := h.counter.Top(r.Context(), hostID, queryLimit(r, defaultTopLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if top == nil {
		top = []cache.FormCount{}
	}

	writeJSON(w, http.StatusOK, top)
}

// Analyze handles POST /v1/forms/{formId}/analyze.
// By default the run is queued; ?sync=true waits for the result.
func (h *FormsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	formID := mux.Vars(r)["formId"]

	if r.URL.Query().Get("sync") == "true" {
		result, err := h.analysisSvc.RunNow(r.Context(), hostID, formID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	taskID, err := h.analysisSvc.Enqueue(r.Context(), hostID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"taskId": taskID,
		"status": "queued",
	})
}

// FrequentEmails handles GET /v1/emails/frequent
func (h *FormsHandler) FrequentEmails(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	emails, err := h.metadata.FrequentEmails(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if emails == nil {
		emails = []model.EmailStat{}
	}

	writeJSON(w, http.StatusOK, emails)
}

func queryLimit(r *http.Request, def int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
