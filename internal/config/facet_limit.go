package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FacetLimit is a facet limit setting that distinguishes three states:
// unset, an explicit integer, and the boolean sentinel true meaning "use the
// system default page size".
type FacetLimit struct {
	set      bool
	sentinel bool
	value    int
}

// Limit creates an explicit integer limit.
func Limit(n int) FacetLimit {
	return FacetLimit{set: true, value: n}
}

// DefaultLimit creates the "use system default" sentinel.
func DefaultLimit() FacetLimit {
	return FacetLimit{set: true, sentinel: true}
}

// IsSet reports whether any limit was configured.
func (l FacetLimit) IsSet() bool { return l.set }

// IsDefault reports whether the limit is the "use system default" sentinel.
func (l FacetLimit) IsDefault() bool { return l.set && l.sentinel }

// Value returns the explicit integer limit.
func (l FacetLimit) Value() int { return l.value }

// UnmarshalYAML accepts either a boolean or an integer value.
func (l *FacetLimit) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		*l = FacetLimit{set: b, sentinel: b}
		return nil
	}
	var n int
	if err := node.Decode(&n); err == nil {
		*l = FacetLimit{set: true, value: n}
		return nil
	}
	return fmt.Errorf("facet limit must be a boolean or an integer, got %q", node.Value)
}
