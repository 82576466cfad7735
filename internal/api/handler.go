package api

import (
	"encoding/json"
	"net/http"

	"stock-predictor/internal/app"
	"stock-predictor/models"
	"stock-predictor/observability"
	"stock-predictor/services"
	"stock-predictor/templates"

	"github.com/go-chi/chi/v5"
)

// PredictErrorMessage is the only failure message clients ever see
const PredictErrorMessage = "Server Error or Invalid Ticker"

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
}

// NewHandler creates a new Handler
func NewHandler(application *app.App) *Handler {
	return &Handler{app: application}
}

// PredictResponse is the success body of /api/predict/{ticker}
type PredictResponse struct {
	Status string                 `json:"status"`
	Ticker string                 `json:"ticker"`
	Data   []models.AnalyzedPoint `json:"data"`
}

// StatusResponse represents a status response
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports provider and circuit breaker state
type HealthResponse struct {
	Status          string                                   `json:"status"`
	Provider        string                                   `json:"provider"`
	CircuitBreakers map[string]services.CircuitBreakerStatus `json:"circuit_breakers"`
}

// HandleIndex serves the main application page using templ
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(h.app.ProviderName()).Render(r.Context(), w); err != nil {
		observability.WithContext(r.Context()).Error("failed to render index", "error", err)
	}
}

// HandlePredict returns the SMA and Bollinger Band series for a ticker
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	prediction, err := h.app.Predict(r.Context(), ticker)
	if err != nil {
		// cause is logged by the app; clients get one generic message
		h.jsonStatus(w, r, StatusResponse{Status: "error", Message: PredictErrorMessage}, http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, r, PredictResponse{
		Status: "success",
		Ticker: prediction.Ticker,
		Data:   prediction.Points,
	})
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:          "ok",
		Provider:        h.app.ProviderName(),
		CircuitBreakers: h.app.BreakerStatus(),
	}

	// Any open breaker means predictions are currently failing fast
	for _, cb := range resp.CircuitBreakers {
		if cb.State == "open" {
			resp.Status = "degraded"
			break
		}
	}

	h.jsonResponse(w, r, resp)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, r *http.Request, data interface{}) {
	h.jsonStatus(w, r, data, http.StatusOK)
}

func (h *Handler) jsonStatus(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.WithContext(r.Context()).Error("failed to write response",
			"path", r.URL.Path,
			"error", err)
	}
}
