package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/persister"
	"github.com/stockroom-app/variantd/pkg/provider"
)

// AssetRoute serves the browser asset for the served variant.
const AssetRoute = "/repository-type.js"

type HTTPServiceConfiguration struct {
	Port int32
}

// HTTPService serves the feature gate to the UI layer.
type HTTPService struct {
	HTTPServiceConfiguration *HTTPServiceConfiguration
	// VersionFor builds the version info reported for the served variant.
	// When nil only the variant is reported.
	VersionFor func(model.Variant) model.VersionInfo
}

type Server struct {
	source  model.Source
	version model.VersionInfo
	metrics *Metrics
}

type variantResponse struct {
	Variant model.Variant     `json:"variant"`
	Source  model.Source      `json:"source"`
	Version model.VersionInfo `json:"version"`
}

type featureResponse struct {
	Key       string `json:"key"`
	Enabled   bool   `json:"enabled"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// NewRouter returns the handler tree for p, which must be initialized.
// Metrics are registered with reg and exposed on /metrics.
func NewRouter(p provider.IProvider, version model.VersionInfo, reg *prometheus.Registry) http.Handler {
	s := Server{
		source:  p.Source(),
		version: version,
		metrics: NewMetrics(reg),
	}
	s.metrics.setVariant(p.Gate().Variant(), p.Source())

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware(p.Gate()))
		r.Get("/api/variant", s.Variant)
		r.Get("/api/features", s.Features)
		r.Get("/api/features/{key}", s.Feature)
		r.Get(AssetRoute, s.Asset)
	})
	return r
}

func (s Server) Variant(w http.ResponseWriter, r *http.Request) {
	g := gate.FromContext(r.Context())
	writeJSON(w, http.StatusOK, variantResponse{
		Variant: g.Variant(),
		Source:  s.source,
		Version: s.version,
	})
}

func (s Server) Features(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gate.FromContext(r.Context()).Statuses())
}

func (s Server) Feature(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	feature, ok := model.ParseFeature(key)
	if !ok {
		log.WithField("feature", key).Debug("query for unknown feature")
		writeJSON(w, http.StatusNotFound, featureResponse{
			Key:       key,
			Enabled:   false,
			ErrorCode: model.FeatureNotFoundErrorCode,
		})
		return
	}
	enabled := gate.FromContext(r.Context()).IsEnabled(feature)
	s.metrics.observeCheck(key, enabled)
	writeJSON(w, http.StatusOK, featureResponse{Key: key, Enabled: enabled})
}

func (s Server) Asset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(persister.RenderAsset(gate.FromContext(r.Context()).Variant()))
}

func (h *HTTPService) Serve(ctx context.Context, p provider.IProvider) error {
	if h.HTTPServiceConfiguration == nil {
		return errors.New("http service configuration has not been initialised")
	}
	served := p.Gate().Variant()
	info := model.VersionInfo{Variant: served}
	if h.VersionFor != nil {
		info = h.VersionFor(served)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", h.HTTPServiceConfiguration.Port),
		Handler:           NewRouter(p, info, prometheus.NewRegistry()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("encode response")
	}
}
