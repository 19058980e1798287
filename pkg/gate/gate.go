// Package gate answers feature enablement queries for a resolved variant.
package gate

import (
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/registry"
)

// Gate is read-only once constructed and safe for concurrent use.
type Gate struct {
	variant model.Variant
}

// FeatureStatus pairs a registry entry with its state under the gate's variant.
type FeatureStatus struct {
	model.FeatureFlag
	Enabled bool `json:"enabled"`
}

// New returns a gate for v.
func New(v model.Variant) *Gate {
	return &Gate{variant: v}
}

// Variant returns the variant the gate was built for.
func (g *Gate) Variant() model.Variant {
	if g == nil {
		return ""
	}
	return g.variant
}

// IsEnabled reports whether feature is available in the gate's variant.
// Unknown features, and a nil gate, are closed.
func (g *Gate) IsEnabled(feature model.Feature) bool {
	return g.IsAvailableIn(feature, g.Variant())
}

// IsAvailableIn reports whether feature is available in v, regardless of
// the gate's own variant.
func (g *Gate) IsAvailableIn(feature model.Feature, v model.Variant) bool {
	ok, err := registry.Availability(feature, v)
	if err != nil {
		return false
	}
	return ok
}

// EnabledFeatures returns the enabled features in registry order.
func (g *Gate) EnabledFeatures() []model.Feature {
	var out []model.Feature
	for _, f := range registry.All() {
		if f.Availability.In(g.Variant()) {
			out = append(out, f.Key)
		}
	}
	return out
}

// Statuses returns every registered feature with its enabled state.
func (g *Gate) Statuses() []FeatureStatus {
	all := registry.All()
	out := make([]FeatureStatus, 0, len(all))
	for _, f := range all {
		out = append(out, FeatureStatus{FeatureFlag: f, Enabled: f.Availability.In(g.Variant())})
	}
	return out
}
