package version

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-app/variantd/pkg/model"
)

func TestInfo_BuildEnvironment(t *testing.T) {
	t.Setenv("BUILD_DATE", "2026-10-01")
	t.Setenv("BUILD_NUMBER", "412")
	t.Setenv("COMMIT_HASH", "abc123")
	Version = "2.3.1"
	t.Cleanup(func() { Version = "" })

	info := Info(model.Public, "production")
	assert.Equal(t, model.VersionInfo{
		Version:     "2.3.1",
		Variant:     model.Public,
		Environment: "production",
		BuildDate:   "2026-10-01",
		BuildNumber: "412",
		CommitHash:  "abc123",
	}, info)
}

func TestInfo_NoLdflags_HasVersion(t *testing.T) {
	info := Info(model.Sandbox, "development")
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, model.Sandbox, info.Variant)
}

func TestParse_Valid(t *testing.T) {
	want := model.VersionInfo{Version: "1.0.0", Variant: model.Sandbox, Environment: "staging", BuildNumber: "7"}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := Parse(data)
	if assert.NoError(t, err) {
		assert.Equal(t, want, got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown variant":  `{"version":"1","variant":"staging","environment":"prod"}`,
		"missing version":  `{"variant":"public","environment":"prod"}`,
		"extra property":   `{"version":"1","variant":"public","environment":"prod","flags":{}}`,
		"not json":         `version=1`,
		"wrong field type": `{"version":1,"variant":"public","environment":"prod"}`,
	}
	for name, doc := range tests {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidManifest, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.2.0","variant":"private","environment":"production"}`), 0644))

	info, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.Private, info.Variant)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}
