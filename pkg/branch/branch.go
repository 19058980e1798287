// Package branch maps git branches to repository variants and checks that
// a resolved variant agrees with the checked-out branch.
package branch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/stockroom-app/variantd/pkg/model"
)

var variantByBranch = map[string]model.Variant{
	"main":    model.Private,
	"public":  model.Public,
	"sandbox": model.Sandbox,
}

// VariantFor returns the variant implied by a branch name. Any branch other
// than main, public or sandbox implies nothing.
func VariantFor(name string) (model.Variant, bool) {
	v, ok := variantByBranch[name]
	return v, ok
}

// ExpectedFor returns the branch a variant is normally deployed from.
func ExpectedFor(v model.Variant) string {
	for name, bv := range variantByBranch {
		if bv == v {
			return name
		}
	}
	return ""
}

// Consistency is the result of comparing a variant with a branch.
type Consistency struct {
	Variant    model.Variant
	Actual     string
	Expected   string
	Consistent bool
}

// Check compares variant against the checked-out branch. An empty branch
// means the branch is unknown and is reported as consistent.
func Check(variant model.Variant, branch string) Consistency {
	expected := ExpectedFor(variant)
	return Consistency{
		Variant:    variant,
		Actual:     branch,
		Expected:   expected,
		Consistent: branch == "" || branch == expected,
	}
}

// Warning renders an operator-facing message for a mismatch, or "" when
// consistent.
func (c Consistency) Warning() string {
	if c.Consistent {
		return ""
	}
	return fmt.Sprintf("variant %q is normally deployed from branch %q, but the current branch is %q",
		c.Variant, c.Expected, c.Actual)
}

// Source yields the current branch name.
type Source interface {
	Current(ctx context.Context) (string, bool)
}

// Git reads the branch of the repository rooted at Dir.
type Git struct {
	Dir string
}

// Current runs git rev-parse. A missing binary, a directory outside a
// repository and a detached HEAD all report no branch.
func (g Git) Current(ctx context.Context) (string, bool) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(string(out))
	if name == "" || name == "HEAD" {
		return "", false
	}
	return name, true
}

// Static is a Source with a fixed answer. An empty Name reports no branch.
type Static struct {
	Name string
}

func (s Static) Current(context.Context) (string, bool) {
	return s.Name, s.Name != ""
}
