// Package persister commits a resolved variant to the artifacts read by
// later stages: the marker file read by the resolver on the next run, and
// a generated script that hands the variant to the statically bundled
// front end.
package persister

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/stockroom-app/variantd/pkg/model"
)

// GlobalName is the browser global assigned by the generated asset.
const GlobalName = "__REPOSITORY_TYPE__"

const assetHeader = "// Code generated by variantd set-variant. DO NOT EDIT.\n"

// ErrMalformedAsset is returned when a file does not look like a generated asset.
var ErrMalformedAsset = errors.New("malformed variant asset")

var assetPattern = regexp.MustCompile(`window\.` + GlobalName + `\s*=\s*("[^"]*")`)

// Persister writes the variant artifacts. Empty paths skip that artifact.
type Persister struct {
	MarkerPath  string
	AssetPath   string
	VersionPath string
}

// Persist overwrites the browser asset, the version manifest when info is
// non-nil, and finally the marker file. The variant is not validated. The
// first failed write is returned; the marker is only written once the
// generated artifacts are, so a failure never leaves it ahead of them.
func (p *Persister) Persist(v model.Variant, info *model.VersionInfo) error {
	if p.AssetPath != "" {
		if err := writeFile(p.AssetPath, RenderAsset(v)); err != nil {
			return fmt.Errorf("write variant asset: %w", err)
		}
	}
	if p.VersionPath != "" && info != nil {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encode version manifest: %w", err)
		}
		if err := writeFile(p.VersionPath, append(data, '\n')); err != nil {
			return fmt.Errorf("write version manifest: %w", err)
		}
	}
	return WriteMarker(p.MarkerPath, v)
}

// WriteMarker writes the raw lowercase identifier to path.
func WriteMarker(path string, v model.Variant) error {
	if path == "" {
		return errors.New("write marker file: no path set")
	}
	if err := writeFile(path, []byte(string(v)+"\n")); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}
	return nil
}

// RenderAsset returns the script that binds the browser global to v.
func RenderAsset(v model.Variant) []byte {
	// json.Marshal of a string never fails and yields a valid JS literal.
	lit, _ := json.Marshal(string(v))
	return []byte(fmt.Sprintf("%swindow.%s = %s;\n", assetHeader, GlobalName, lit))
}

// ParseAsset re-derives the variant from generated asset content.
func ParseAsset(content []byte) (model.Variant, error) {
	m := assetPattern.FindSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("%w: no assignment to window.%s", ErrMalformedAsset, GlobalName)
	}
	var raw string
	if err := json.Unmarshal(m[1], &raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedAsset, err)
	}
	return model.ParseVariant(raw)
}

// ReadAsset reads and parses a generated asset from disk.
func ReadAsset(path string) (model.Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ParseAsset(data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
