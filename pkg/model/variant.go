package model

import (
	"errors"
	"fmt"
	"strings"
)

// Variant is a repository variant. It is the single configuration axis
// for feature gating.
type Variant string

const (
	Private Variant = "private"
	Public  Variant = "public"
	Sandbox Variant = "sandbox"
)

// DefaultVariant is used when no resolution signal yields a value.
const DefaultVariant = Private

// ErrInvalidVariant is returned when a token is not one of the known variants.
var ErrInvalidVariant = errors.New("invalid repository variant")

// Variants returns the valid variants in declaration order.
func Variants() []Variant {
	return []Variant{Private, Public, Sandbox}
}

// ParseVariant trims and lowercases raw and checks it against the known
// variants.
func ParseVariant(raw string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(raw)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidVariant, strings.TrimSpace(raw), VariantList())
	}
	return v, nil
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case Private, Public, Sandbox:
		return true
	}
	return false
}

func (v Variant) String() string {
	return string(v)
}

// VariantList renders the valid variants as "private|public|sandbox".
func VariantList() string {
	names := make([]string, 0, 3)
	for _, v := range Variants() {
		names = append(names, string(v))
	}
	return strings.Join(names, "|")
}
