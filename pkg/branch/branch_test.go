package branch

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-app/variantd/pkg/model"
)

func TestVariantFor(t *testing.T) {
	tests := map[string]struct {
		want model.Variant
		ok   bool
	}{
		"main":        {model.Private, true},
		"public":      {model.Public, true},
		"sandbox":     {model.Sandbox, true},
		"develop":     {"", false},
		"Main":        {"", false},
		"feature/foo": {"", false},
	}
	for name, tt := range tests {
		got, ok := VariantFor(name)
		assert.Equal(t, tt.ok, ok, name)
		assert.Equal(t, tt.want, got, name)
	}
}

func TestExpectedFor(t *testing.T) {
	assert.Equal(t, "main", ExpectedFor(model.Private))
	assert.Equal(t, "public", ExpectedFor(model.Public))
	assert.Equal(t, "sandbox", ExpectedFor(model.Sandbox))
	assert.Equal(t, "", ExpectedFor(model.Variant("staging")))
}

func TestCheck_PublicOnMain_Inconsistent(t *testing.T) {
	c := Check(model.Public, "main")
	assert.False(t, c.Consistent)
	assert.Equal(t, "public", c.Expected)
	assert.Equal(t, "main", c.Actual)
	assert.Equal(t, `variant "public" is normally deployed from branch "public", but the current branch is "main"`, c.Warning())
}

func TestCheck_PrivateOnMain_Consistent(t *testing.T) {
	c := Check(model.Private, "main")
	assert.True(t, c.Consistent)
	assert.Equal(t, "main", c.Expected)
	assert.Empty(t, c.Warning())
}

func TestCheck_UnknownBranch_Consistent(t *testing.T) {
	c := Check(model.Sandbox, "")
	assert.True(t, c.Consistent)
	assert.Empty(t, c.Warning())
}

func TestCheck_OtherBranch_Inconsistent(t *testing.T) {
	c := Check(model.Private, "feature/reports")
	assert.False(t, c.Consistent)
	assert.Contains(t, c.Warning(), `"feature/reports"`)
}

func TestGit_NotARepository(t *testing.T) {
	name, ok := Git{Dir: t.TempDir()}.Current(context.Background())
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestGit_CurrentBranch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	run("checkout", "-q", "-b", "sandbox")
	run("-c", "user.email=test@example.com", "-c", "user.name=test", "commit", "-q", "--allow-empty", "-m", "init")

	name, ok := Git{Dir: dir}.Current(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "sandbox", name)
}

func TestStatic(t *testing.T) {
	name, ok := Static{Name: "public"}.Current(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "public", name)

	_, ok = Static{}.Current(context.Background())
	assert.False(t, ok)
}
