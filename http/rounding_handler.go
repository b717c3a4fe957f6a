package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nickel-advisor/domain"
	"nickel-advisor/service"
)

type RoundingHandler struct {
	service *service.RoundingService
	logger  *zap.Logger
}

func NewRoundingHandler(service *service.RoundingService, logger *zap.Logger) *RoundingHandler {
	return &RoundingHandler{service: service, logger: logger.Named("rounding-handler")}
}

func (h *RoundingHandler) Round(w http.ResponseWriter, r *http.Request) {
	var input domain.RoundInput
	if !h.decode(w, r, &input) {
		return
	}

	result, err := h.service.Round(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, r, result)
}

func (h *RoundingHandler) FindReachable(w http.ResponseWriter, r *http.Request) {
	var input domain.ReachableInput
	if !h.decode(w, r, &input) {
		return
	}

	result, err := h.service.FindReachable(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, r, result)
}

func (h *RoundingHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var input domain.QuoteInput
	if !h.decode(w, r, &input) {
		return
	}

	result, err := h.service.Suggest(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, r, result)
}

func (h *RoundingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var input domain.QuoteInput
	if !h.decode(w, r, &input) {
		return
	}

	result, err := h.service.Quote(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, r, result)
}

func (h *RoundingHandler) Rules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, r, h.service.Rules())
}

func (h *RoundingHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, map[string]string{"status": "healthy"})
}

// decode enforces POST with a JSON body and writes the error response
// itself when the request is unusable.
func (h *RoundingHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug("invalid request body",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	return true
}

func (h *RoundingHandler) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	// Encode into a buffer first so a failure can still become a 500.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("error encoding response",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("error writing response", zap.Error(err))
	}
}
