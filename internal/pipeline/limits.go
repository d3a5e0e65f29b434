package pipeline

import (
	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/solr"
)

// DefaultFacetLimit is the display page size used when a facet field is
// configured with the "use system default" sentinel.
const DefaultFacetLimit = 10

// unlimitedFacetLimit is the engine's convention for "no limit".
const unlimitedFacetLimit = -1

// LimitResolver computes the effective display page size for a facet's
// value list, combining static configuration with limits echoed back in a
// previous response.
type LimitResolver struct {
	cfg *config.Config
}

// NewLimitResolver creates a resolver over the given configuration.
func NewLimitResolver(cfg *config.Config) *LimitResolver {
	return &LimitResolver{cfg: cfg}
}

// LimitFor returns the display limit for a facet field. ok is false when no
// explicit limit applies (unconfigured field, unlimited sentinel, or "let
// the engine pick").
//
// When prior carries an engine-echoed per-field limit, that value wins: -1
// means unlimited, anything else is reduced by one to reverse the pipeline's
// over-fetch. When the echo is absent the static configuration applies,
// except that the "system default" sentinel defers to the engine in that
// case.
func (r *LimitResolver) LimitFor(field string, prior *solr.Response) (int, bool) {
	fc, configured := r.cfg.Search.FacetField(field)

	if prior != nil {
		if echoed, ok := prior.Header.Params.Int("f." + field + ".facet.limit"); ok {
			if echoed == unlimitedFacetLimit {
				return 0, false
			}
			return echoed - 1, true
		}
		if configured && fc.Limit.IsDefault() {
			return 0, false
		}
	}

	if !configured || !fc.Limit.IsSet() {
		return 0, false
	}
	if fc.Limit.IsDefault() {
		return DefaultFacetLimit, true
	}
	return fc.Limit.Value(), true
}
