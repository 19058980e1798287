package model

// Source names the signal a resolution was taken from.
type Source string

const (
	MarkerFileSource  Source = "MARKER_FILE"
	EnvironmentSource Source = "ENVIRONMENT"
	BranchSource      Source = "BRANCH"
	DefaultSource     Source = "DEFAULT"
	// AssetSource is used when the variant was read back from a generated
	// browser asset instead of being resolved.
	AssetSource Source = "ASSET"
)

// error codes surfaced to API clients
const (
	FeatureNotFoundErrorCode = "FEATURE_NOT_FOUND"
	InvalidVariantErrorCode  = "INVALID_VARIANT"
)
