package model

import "encoding/json"

// Feature identifies an optional capability. The set is closed: only the
// constants below are registered.
type Feature string

const (
	AdvancedReporting    Feature = "ADVANCED_REPORTING"
	BulkImport           Feature = "BULK_IMPORT"
	AuditLog             Feature = "AUDIT_LOG"
	DataExport           Feature = "DATA_EXPORT"
	PersonnelManagement  Feature = "PERSONNEL_MANAGEMENT"
	DemoData             Feature = "DEMO_DATA"
	PublicSignup         Feature = "PUBLIC_SIGNUP"
	ExperimentalFeatures Feature = "EXPERIMENTAL_FEATURES"
)

// Features returns every known feature identifier.
// NOTE: a new constant must be added here and to the registry table.
func Features() []Feature {
	return []Feature{
		AdvancedReporting,
		BulkImport,
		AuditLog,
		DataExport,
		PersonnelManagement,
		DemoData,
		PublicSignup,
		ExperimentalFeatures,
	}
}

// ParseFeature maps a raw key onto a known feature.
func ParseFeature(raw string) (Feature, bool) {
	for _, f := range Features() {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

func (f Feature) String() string {
	return string(f)
}

// Availability declares, per variant, whether a feature is offered.
// Each variant is a field so an entry cannot omit one.
type Availability struct {
	Private bool
	Public  bool
	Sandbox bool
}

// In returns the declared availability for v. Invalid variants are never
// available.
func (a Availability) In(v Variant) bool {
	switch v {
	case Private:
		return a.Private
	case Public:
		return a.Public
	case Sandbox:
		return a.Sandbox
	default:
		return false
	}
}

func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[Variant]bool{
		Private: a.Private,
		Public:  a.Public,
		Sandbox: a.Sandbox,
	})
}

// FeatureFlag is a registry entry.
type FeatureFlag struct {
	Key          Feature      `json:"key"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Availability Availability `json:"availability"`
}
