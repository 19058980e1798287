// Package registry holds the static table of optional features and the
// variants each one is offered in. The table is built once at init and has
// no mutation entrypoints.
package registry

import (
	"errors"
	"fmt"

	"github.com/stockroom-app/variantd/pkg/model"
)

// ErrUnknownFeature is returned for keys that are not in the table.
var ErrUnknownFeature = errors.New("unknown feature")

var flags = []model.FeatureFlag{
	{
		Key:          model.AdvancedReporting,
		Title:        "Advanced reporting",
		Description:  "Usage trends, utilisation and overdue-item reports",
		Availability: model.Availability{Private: true, Public: false, Sandbox: true},
	},
	{
		Key:          model.BulkImport,
		Title:        "Bulk import",
		Description:  "CSV import of items and personnel",
		Availability: model.Availability{Private: true, Public: false, Sandbox: true},
	},
	{
		Key:          model.AuditLog,
		Title:        "Audit log",
		Description:  "Retained history of every check-in and check-out",
		Availability: model.Availability{Private: true, Public: false, Sandbox: false},
	},
	{
		Key:          model.DataExport,
		Title:        "Data export",
		Description:  "Download inventory and transactions as CSV",
		Availability: model.Availability{Private: true, Public: true, Sandbox: true},
	},
	{
		Key:          model.PersonnelManagement,
		Title:        "Personnel management",
		Description:  "Create, edit and deactivate personnel records",
		Availability: model.Availability{Private: true, Public: false, Sandbox: true},
	},
	{
		Key:          model.DemoData,
		Title:        "Demo data",
		Description:  "Seeded sample inventory and a reset button",
		Availability: model.Availability{Private: false, Public: true, Sandbox: true},
	},
	{
		Key:          model.PublicSignup,
		Title:        "Public sign-up",
		Description:  "Self-service account creation from the landing page",
		Availability: model.Availability{Private: false, Public: true, Sandbox: false},
	},
	{
		Key:          model.ExperimentalFeatures,
		Title:        "Experimental features",
		Description:  "Unreleased UI behind the sandbox banner",
		Availability: model.Availability{Private: false, Public: false, Sandbox: true},
	},
}

// byKey provides O(1) lookup by feature key.
var byKey = buildIndex(flags)

func init() {
	if err := Validate(flags); err != nil {
		panic(err)
	}
}

func buildIndex(in []model.FeatureFlag) map[model.Feature]model.FeatureFlag {
	m := make(map[model.Feature]model.FeatureFlag, len(in))
	for _, f := range in {
		m[f.Key] = f
	}
	return m
}

// Validate checks that every known feature identifier has exactly one
// entry with a title, and that no entry uses an unknown key.
func Validate(table []model.FeatureFlag) error {
	seen := make(map[model.Feature]bool, len(table))
	for _, f := range table {
		if _, ok := model.ParseFeature(string(f.Key)); !ok {
			return fmt.Errorf("registry: %w: %q", ErrUnknownFeature, f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("registry: duplicate feature %q", f.Key)
		}
		if f.Title == "" {
			return fmt.Errorf("registry: feature %q has no title", f.Key)
		}
		seen[f.Key] = true
	}
	for _, k := range model.Features() {
		if !seen[k] {
			return fmt.Errorf("registry: feature %q is not registered", k)
		}
	}
	return nil
}

// Availability reports whether feature is offered in variant.
func Availability(feature model.Feature, variant model.Variant) (bool, error) {
	f, ok := byKey[feature]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}
	return f.Availability.In(variant), nil
}

// Lookup returns the registry entry for feature.
func Lookup(feature model.Feature) (model.FeatureFlag, bool) {
	f, ok := byKey[feature]
	return f, ok
}

// All returns every registered feature in declaration order.
// Returns a copy to prevent mutation of the table.
func All() []model.FeatureFlag {
	result := make([]model.FeatureFlag, len(flags))
	copy(result, flags)
	return result
}
