package server

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/catalogapi"
)

// Version is reported by /health.
const Version = "0.1.0"

type catalogHandler struct {
	data        catalog.Dataset
	latency     time.Duration
	jitter      time.Duration
	failureRate float64
	roll        func() float64
	logger      *zap.Logger
	metrics     *metrics
}

func (h *catalogHandler) register(router *mux.Router) {
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/api/items", h.listItems).Methods(http.MethodGet)
	router.HandleFunc("/api/options/{facet}", h.listOptions).Methods(http.MethodGet)
}

func (h *catalogHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": Version})
}

func (h *catalogHandler) listItems(w http.ResponseWriter, r *http.Request) {
	if !h.simulate(w, r) {
		return
	}
	filters := catalog.FiltersFromQuery(r.URL.Query())
	items := h.data.Query(filters)
	writeJSON(w, http.StatusOK, catalogapi.ItemListResponse{Items: items, Total: len(items)})
}

func (h *catalogHandler) listOptions(w http.ResponseWriter, r *http.Request) {
	facet, err := catalog.ParseFacet(mux.Vars(r)["facet"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if !h.simulate(w, r) {
		return
	}
	values := h.data.Options(facet)
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, catalogapi.OptionsResponse{Facet: facet.String(), Values: values})
}

// simulate applies the artificial latency and failure injection. It reports
// whether the handler should go on to write a normal response.
func (h *catalogHandler) simulate(w http.ResponseWriter, r *http.Request) bool {
	if err := h.sleep(r.Context()); err != nil {
		h.logger.Debug("request abandoned during simulated latency",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		return false
	}
	if h.failureRate > 0 && h.roll() < h.failureRate {
		h.metrics.injectedFailures.Inc()
		writeError(w, r, http.StatusServiceUnavailable, "injected failure")
		return false
	}
	return true
}

func (h *catalogHandler) sleep(ctx context.Context) error {
	d := h.latency
	if h.jitter > 0 {
		d += rand.N(h.jitter)
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, catalogapi.ErrorResponse{Error: msg, RequestID: requestID(r.Context())})
}

