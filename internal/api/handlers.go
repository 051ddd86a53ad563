// Package api exposes the HTTP handlers for the health data service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/garmin"
	"github.com/sagarsiwach/garmin-sync/internal/render"
	"github.com/sagarsiwach/garmin-sync/internal/report"
)

const dateLayout = "2006-01-02"

// Handler handles HTTP interactions.
type Handler struct {
	builder *report.Builder
	logger  *zap.Logger
	clock   func() time.Time
}

// NewHandler constructs Handler.
func NewHandler(builder *report.Builder, logger *zap.Logger) *Handler {
	return &Handler{builder: builder, logger: logger, clock: time.Now}
}

// RegisterRoutes sets up routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.index)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/health/", h.health)
	mux.HandleFunc("/sleep", h.sleep)
	mux.HandleFunc("/sleep/", h.sleep)
	mux.HandleFunc("/heart-rate", h.heartRate)
	mux.HandleFunc("/heart-rate/", h.heartRate)
	mux.HandleFunc("/stress", h.stress)
	mux.HandleFunc("/stress/", h.stress)
	mux.HandleFunc("/activities", h.activities)
	mux.HandleFunc("/activities/", h.activityByID)
	mux.HandleFunc("/training", h.training)
	mux.HandleFunc("/training/", h.training)
	mux.HandleFunc("/body", h.body)
	mux.HandleFunc("/hydration", h.hydration)
	mux.HandleFunc("/hydration/", h.hydration)
	mux.HandleFunc("/weekly", h.weekly)
	mux.HandleFunc("/devices", h.devices)
	mux.HandleFunc("/reconnect", h.reconnect)
}

// healthz returns an OK response for readiness probes.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "unknown path")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "garmin-sync",
		"endpoints": []string{
			"/health", "/health/{date}",
			"/sleep", "/sleep/{date}",
			"/heart-rate", "/heart-rate/{date}",
			"/stress", "/stress/{date}",
			"/activities", "/activities/{id}",
			"/training", "/training/{date}",
			"/body", "/hydration", "/hydration/{date}",
			"/weekly", "/devices", "/reconnect",
		},
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/health")
	if !ok {
		return
	}
	includeMarkdown := true
	if raw := r.URL.Query().Get("include_markdown"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			includeMarkdown = parsed
		}
	}

	rep, err := h.builder.BuildReport(r.Context(), day, true)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	if includeMarkdown {
		rep.Markdown = render.Markdown(rep)
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) sleep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/sleep")
	if !ok {
		return
	}
	section, err := h.builder.SleepFor(r.Context(), day)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) heartRate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/heart-rate")
	if !ok {
		return
	}
	hr, hrv, err := h.builder.HeartRateFor(r.Context(), day)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"heart_rate": hr, "hrv": hrv})
}

func (h *Handler) stress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/stress")
	if !ok {
		return
	}
	stress, battery, err := h.builder.StressFor(r.Context(), day)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stress": stress, "body_battery": battery})
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	limit, ok := h.boundedIntParam(w, r, "limit", 10, 1, 100)
	if !ok {
		return
	}
	days, ok := h.boundedIntParam(w, r, "days", 0, 1, 365)
	if !ok {
		return
	}

	activities, err := h.builder.RecentActivities(r.Context(), limit, days)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(activities), "activities": activities})
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/activities/"), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "activity id must be an integer")
		return
	}

	detail, err := h.builder.ActivityByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) training(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/training")
	if !ok {
		return
	}
	training, err := h.builder.TrainingFor(r.Context(), day)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, training)
}

func (h *Handler) body(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	days, ok := h.boundedIntParam(w, r, "days", 30, 1, 365)
	if !ok {
		return
	}
	section, err := h.builder.BodyCompositionFor(r.Context(), days)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) hydration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	day, ok := h.datePathParam(w, r, "/hydration")
	if !ok {
		return
	}
	section, err := h.builder.HydrationFor(r.Context(), day)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) weekly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	summary, err := h.builder.BuildWeeklySummary(r.Context(), h.clock())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) devices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	devices, err := h.builder.ConnectedDevices(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(devices), "devices": devices})
}

// reconnect discards the current session and establishes a fresh one
// immediately, so the next data call does not pay the login cost.
func (h *Handler) reconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	sessions := h.builder.Sessions()
	sessions.Reset()
	if err := sessions.Ensure(r.Context()); err != nil {
		h.logger.Warn("reconnect failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", "unable to re-establish Garmin session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reconnected"})
}

// datePathParam extracts the optional ISO date path segment after prefix.
// Absent means today. Malformed dates fail before any upstream call.
func (h *Handler) datePathParam(w http.ResponseWriter, r *http.Request, prefix string) (time.Time, bool) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if rest == "" {
		return h.clock(), true
	}
	day, err := time.Parse(dateLayout, rest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func (h *Handler) boundedIntParam(w http.ResponseWriter, r *http.Request, name string, def, min, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < min || parsed > max {
		writeError(w, http.StatusBadRequest, "invalid_request",
			name+" must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		return 0, false
	}
	return parsed, true
}

func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, garmin.ErrAuthentication), errors.Is(err, garmin.ErrMissingCredentials):
		writeError(w, http.StatusServiceUnavailable, "upstream_auth", "Garmin authentication failed")
	case errors.Is(err, garmin.ErrRateLimited):
		writeError(w, http.StatusServiceUnavailable, "rate_limited", "Garmin rate limit hit, retry later")
	default:
		h.logger.Error("upstream fetch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
