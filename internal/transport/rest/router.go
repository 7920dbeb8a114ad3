package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"surveyforge/internal/cache"
	"surveyforge/internal/config"
	"surveyforge/internal/service"
	"surveyforge/internal/transport/rest/handler"
	"surveyforge/internal/transport/rest/middleware"
	"surveyforge/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config           *config.Config
	AuthService      *service.AuthService
	SurveyService    *service.SurveyService
	ProvisionService *service.ProvisionService
	ResponseService  *service.ResponseService
	AnalysisService  *service.AnalysisService
	Metadata         cache.MetadataStore
	ResponseCounter  cache.ResponseCounter
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	provisionHandler := handler.NewProvisionHandler(c.ProvisionService)
	publicHandler := handler.NewPublicFormHandler(c.ResponseService)
	formsHandler := handler.NewFormsHandler(c.Metadata, c.ResponseCounter, c.ResponseService, c.AnalysisService, c.WSHub)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Metadata, c.Config.CORSAllowedOrigins)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config.CORSAllowedOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/public/forms/{databaseId}", publicHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/public/forms/{databaseId}/responses", publicHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/forms/{formId}", wsHandler.FormWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/surveys/generate", surveyHandler.Generate).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/import", surveyHandler.Import).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/provision", provisionHandler.Provision).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/apps-script", provisionHandler.AppsScript).Methods("GET", "OPTIONS")

	hostRoutes.HandleFunc("/forms", formsHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/top", formsHandler.Top).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}", formsHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}/responses", formsHandler.Responses).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}/responses/{responseId}", formsHandler.Response).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}/analyze", formsHandler.Analyze).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/emails/frequent", formsHandler.FrequentEmails).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
