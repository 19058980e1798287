package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/persister"
)

type staticProvider struct {
	variant model.Variant
}

func (p staticProvider) Initialize(context.Context) error { return nil }
func (p staticProvider) Gate() *gate.Gate                 { return gate.New(p.variant) }
func (p staticProvider) Source() model.Source             { return model.EnvironmentSource }

func newRouter(t *testing.T, v model.Variant) http.Handler {
	t.Helper()
	info := model.VersionInfo{Version: "1.0.0", Variant: v, Environment: "test"}
	return NewRouter(staticProvider{variant: v}, info, prometheus.NewRegistry())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestVariant(t *testing.T) {
	rec := get(t, newRouter(t, model.Sandbox), "/api/variant")
	require.Equal(t, http.StatusOK, rec.Code)

	var body variantResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, model.Sandbox, body.Variant)
	assert.Equal(t, model.EnvironmentSource, body.Source)
	assert.Equal(t, "1.0.0", body.Version.Version)
}

func TestFeatures(t *testing.T) {
	rec := get(t, newRouter(t, model.Public), "/api/features")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		Key          model.Feature   `json:"key"`
		Enabled      bool            `json:"enabled"`
		Availability map[string]bool `json:"availability"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, len(model.Features()))
	for _, f := range body {
		assert.Equal(t, f.Availability["public"], f.Enabled, f.Key)
		assert.Len(t, f.Availability, 3)
	}
}

func TestFeature(t *testing.T) {
	tests := []struct {
		name        string
		variant     model.Variant
		key         string
		wantStatus  int
		wantEnabled bool
		wantCode    string
	}{
		{"enabled", model.Private, "ADVANCED_REPORTING", http.StatusOK, true, ""},
		{"disabled", model.Public, "ADVANCED_REPORTING", http.StatusOK, false, ""},
		{"unknown", model.Sandbox, "TELEPORTATION", http.StatusNotFound, false, model.FeatureNotFoundErrorCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newRouter(t, tt.variant), "/api/features/"+tt.key)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body featureResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.key, body.Key)
			assert.Equal(t, tt.wantEnabled, body.Enabled)
			assert.Equal(t, tt.wantCode, body.ErrorCode)
		})
	}
}

func TestAsset(t *testing.T) {
	rec := get(t, newRouter(t, model.Public), AssetRoute)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")

	v, err := persister.ParseAsset(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, model.Public, v)
}

func TestMetrics(t *testing.T) {
	h := newRouter(t, model.Private)
	get(t, h, "/api/features/AUDIT_LOG")
	get(t, h, "/api/features/AUDIT_LOG")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	assert.True(t, strings.Contains(text, `variantd_feature_checks_total{enabled="true",feature="AUDIT_LOG"} 2`), text)
	assert.True(t, strings.Contains(text, `variantd_repository_variant_info{source="ENVIRONMENT",variant="private"} 1`), text)
}

func TestServe_NoConfiguration_Error(t *testing.T) {
	h := &HTTPService{}
	err := h.Serve(context.Background(), staticProvider{variant: model.Private})
	assert.Error(t, err)
}
