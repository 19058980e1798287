package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/registry"
)

func TestIsEnabled_MatchesRegistry(t *testing.T) {
	for _, v := range model.Variants() {
		g := New(v)
		for _, f := range model.Features() {
			want, err := registry.Availability(f, v)
			require.NoError(t, err)
			assert.Equal(t, want, g.IsEnabled(f), "%s in %s", f, v)
			assert.Equal(t, want, g.IsAvailableIn(f, v), "%s in %s", f, v)
		}
	}
}

func TestIsEnabled_AdvancedReporting(t *testing.T) {
	assert.True(t, New(model.Private).IsEnabled(model.AdvancedReporting))
	assert.False(t, New(model.Public).IsEnabled(model.AdvancedReporting))
	assert.True(t, New(model.Sandbox).IsEnabled(model.AdvancedReporting))
}

func TestIsEnabled_UnknownFeature_False(t *testing.T) {
	g := New(model.Sandbox)
	assert.NotPanics(t, func() {
		assert.False(t, g.IsEnabled(model.Feature("TELEPORTATION")))
	})
	assert.False(t, g.IsAvailableIn(model.Feature(""), model.Sandbox))
}

func TestIsAvailableIn_OtherVariant(t *testing.T) {
	g := New(model.Public)
	assert.False(t, g.IsEnabled(model.AuditLog))
	assert.True(t, g.IsAvailableIn(model.AuditLog, model.Private))
}

func TestNilGate_Closed(t *testing.T) {
	var g *Gate
	assert.Equal(t, model.Variant(""), g.Variant())
	assert.False(t, g.IsEnabled(model.DataExport))
	assert.Empty(t, g.EnabledFeatures())
}

func TestEnabledFeatures(t *testing.T) {
	assert.Equal(t, []model.Feature{
		model.DataExport,
		model.DemoData,
		model.PublicSignup,
	}, New(model.Public).EnabledFeatures())
}

func TestStatuses(t *testing.T) {
	statuses := New(model.Private).Statuses()
	require.Len(t, statuses, len(model.Features()))
	for _, s := range statuses {
		assert.Equal(t, s.Availability.Private, s.Enabled, s.Key)
	}
}

func TestContext_RoundTrip(t *testing.T) {
	g := New(model.Sandbox)
	ctx := NewContext(context.Background(), g)
	assert.Same(t, g, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestMiddleware_InjectsGate(t *testing.T) {
	g := New(model.Public)
	var seen *Gate
	h := Middleware(g)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Same(t, g, seen)
}
