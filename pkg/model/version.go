package model

// VersionInfo describes the running build. It is informational and never
// consulted for gating.
type VersionInfo struct {
	Version     string  `json:"version"`
	Variant     Variant `json:"variant"`
	Environment string  `json:"environment"`
	BuildDate   string  `json:"buildDate,omitempty"`
	BuildNumber string  `json:"buildNumber,omitempty"`
	CommitHash  string  `json:"commitHash,omitempty"`
}
