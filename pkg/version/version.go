package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stockroom-app/variantd/pkg/model"
)

// Version is set at build time via ldflags.
var Version = ""

// ErrInvalidManifest is returned when a version manifest fails validation.
var ErrInvalidManifest = errors.New("invalid version manifest")

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "variant", "environment"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "variant": {"enum": ["private", "public", "sandbox"]},
    "environment": {"type": "string", "minLength": 1},
    "buildDate": {"type": "string"},
    "buildNumber": {"type": "string"},
    "commitHash": {"type": "string"}
  },
  "additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// Info assembles the version info for variant. Build metadata comes from
// BUILD_DATE, BUILD_NUMBER and COMMIT_HASH, falling back to the VCS
// settings embedded by the Go toolchain.
func Info(variant model.Variant, environment string) model.VersionInfo {
	info := model.VersionInfo{
		Version:     effectiveVersion(Version),
		Variant:     variant,
		Environment: environment,
		BuildDate:   os.Getenv("BUILD_DATE"),
		BuildNumber: os.Getenv("BUILD_NUMBER"),
		CommitHash:  os.Getenv("COMMIT_HASH"),
	}
	if info.CommitHash == "" || info.BuildDate == "" {
		revision, when := vcsSettings()
		if info.CommitHash == "" {
			info.CommitHash = revision
		}
		if info.BuildDate == "" {
			info.BuildDate = when
		}
	}
	return info
}

// Parse validates data against the manifest schema and decodes it.
func Parse(data []byte) (model.VersionInfo, error) {
	var info model.VersionInfo
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return info, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return info, fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return info, nil
}

// Load reads and validates the manifest at path.
func Load(path string) (model.VersionInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.VersionInfo{}, err
	}
	return Parse(data)
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}

func vcsSettings() (revision, when string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			when = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision != "" && dirty {
		revision += "+dirty"
	}
	return revision, when
}
