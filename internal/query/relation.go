// Package query holds the mutable outbound search request and the quoting
// rules for engine local-parameter syntax.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Parameter categories understood by ExcludeCategory.
const (
	CategoryFacet      = "facet"
	CategoryGroup      = "group"
	CategorySpellcheck = "spellcheck"
)

// FacetOptions are per-field facet request options, rendered as
// f.<field>.facet.* parameters.
type FacetOptions struct {
	Limit     int
	HasLimit  bool
	Offset    int
	HasOffset bool
	Sort      string
	ExTag     string
	// Params holds free-form extras, keyed relative to the f.<field>.
	// prefix (e.g. "facet.mincount").
	Params map[string]string
}

// Relation is a mutable, composable representation of one outbound search
// request. It is assembled by the decorator pipeline, frozen on submission,
// and never shared across operations.
type Relation struct {
	query           string
	parser          string
	handler         string
	filters         []string
	facetFields     []string
	facetQueries    []string
	facetPivots     []string
	facetOpts       map[string]FacetOptions
	selectFields    []string
	highlightFields []string
	sorts           []string
	offset          int
	limit           int
	hasLimit        bool
	maxLimit        int
	groupField      string
	local           map[string]string
	frozen          bool
}

// NewRelation creates an empty relation. maxLimit caps every limit the
// relation will accept; maxLimit <= 0 means uncapped.
func NewRelation(maxLimit int) *Relation {
	return &Relation{
		facetOpts: make(map[string]FacetOptions),
		local:     make(map[string]string),
		maxLimit:  maxLimit,
	}
}

// Freeze makes the relation read-only. Mutators become no-ops afterwards.
func (r *Relation) Freeze() { r.frozen = true }

// Frozen reports whether the relation has been submitted.
func (r *Relation) Frozen() bool { return r.frozen }

// SetQuery sets the free-text query.
func (r *Relation) SetQuery(text string) {
	if r.frozen {
		return
	}
	r.query = text
}

// SetParser sets the query-parser type (defType).
func (r *Relation) SetParser(parser string) {
	if r.frozen {
		return
	}
	r.parser = parser
}

// SetHandler sets the named request handler (qt).
func (r *Relation) SetHandler(handler string) {
	if r.frozen {
		return
	}
	r.handler = handler
}

// AddFilter appends one field=value constraint. Repeated values on the same
// field stay distinct entries so multi-value OR-style filtering keeps working.
func (r *Relation) AddFilter(field, value string) {
	if r.frozen {
		return
	}
	r.filters = append(r.filters, renderFilter(field, value))
}

// OrFilter extends the most recent filter with an OR clause on the given
// field=value pair. With no prior filter it behaves like AddFilter.
func (r *Relation) OrFilter(field, value string) {
	if r.frozen {
		return
	}
	if len(r.filters) == 0 {
		r.AddFilter(field, value)
		return
	}
	r.filters[len(r.filters)-1] += " OR " + renderFilter(field, value)
}

// AddRawFilter appends a pre-rendered filter clause untouched.
func (r *Relation) AddRawFilter(clause string) {
	if r.frozen {
		return
	}
	r.filters = append(r.filters, clause)
}

func renderFilter(field, value string) string {
	return fmt.Sprintf("%s:%q", field, value)
}

// AddFacetRequest registers a facet field with its per-field options.
// Registering the same field again replaces its options.
func (r *Relation) AddFacetRequest(field string, opts FacetOptions) {
	if r.frozen {
		return
	}
	if _, exists := r.facetOpts[field]; !exists {
		r.facetFields = append(r.facetFields, field)
	}
	r.facetOpts[field] = opts
}

// SetFacetOption updates a single per-field facet option entry, creating the
// facet request if it does not exist yet.
func (r *Relation) SetFacetOption(field, key, value string) {
	if r.frozen {
		return
	}
	opts, exists := r.facetOpts[field]
	if !exists {
		r.facetFields = append(r.facetFields, field)
	}
	if opts.Params == nil {
		opts.Params = make(map[string]string)
	}
	opts.Params[key] = value
	r.facetOpts[field] = opts
}

// RemoveFacetRequest drops a facet field and its options.
func (r *Relation) RemoveFacetRequest(field string) {
	if r.frozen {
		return
	}
	for i, f := range r.facetFields {
		if f == field {
			r.facetFields = append(r.facetFields[:i], r.facetFields[i+1:]...)
			break
		}
	}
	delete(r.facetOpts, field)
}

// AddFacetQuery registers an ad-hoc query facet clause.
func (r *Relation) AddFacetQuery(clause string) {
	if r.frozen {
		return
	}
	r.facetQueries = append(r.facetQueries, clause)
}

// AddFacetPivot registers a pivot facet (comma-separated field chain).
func (r *Relation) AddFacetPivot(csv string) {
	if r.frozen {
		return
	}
	r.facetPivots = append(r.facetPivots, csv)
}

// AddSelectField adds a field to the projection list. params carries optional
// per-field engine options merged into the relation's parameter set.
func (r *Relation) AddSelectField(field string, params map[string]string) {
	if r.frozen {
		return
	}
	if !contains(r.selectFields, field) {
		r.selectFields = append(r.selectFields, field)
	}
	for k, v := range params {
		r.local[k] = v
	}
}

// SelectAllFields replaces the projection list with the engine's "every
// field" wildcard.
func (r *Relation) SelectAllFields() {
	if r.frozen {
		return
	}
	r.selectFields = []string{"*"}
}

// AddHighlightField registers a field for highlighting.
func (r *Relation) AddHighlightField(field string) {
	if r.frozen {
		return
	}
	if !contains(r.highlightFields, field) {
		r.highlightFields = append(r.highlightFields, field)
	}
}

// SetOffset sets the result window start. Negative values clamp to zero.
func (r *Relation) SetOffset(n int) {
	if r.frozen {
		return
	}
	if n < 0 {
		n = 0
	}
	r.offset = n
}

// SetLimit sets the result window size, clamped to [0, maxLimit].
func (r *Relation) SetLimit(n int) {
	if r.frozen {
		return
	}
	if n < 0 {
		n = 0
	}
	if r.maxLimit > 0 && n > r.maxLimit {
		n = r.maxLimit
	}
	r.limit = n
	r.hasLimit = true
}

// AddSort appends one sort key/direction pair.
func (r *Relation) AddSort(key, direction string) {
	if r.frozen {
		return
	}
	r.sorts = append(r.sorts, key+" "+direction)
}

// SetSort replaces the whole sort clause with a raw expression. A blank
// expression is a no-op.
func (r *Relation) SetSort(expr string) {
	if r.frozen || expr == "" {
		return
	}
	r.sorts = []string{expr}
}

// SetGroupField enables result grouping on the given field.
func (r *Relation) SetGroupField(field string) {
	if r.frozen {
		return
	}
	r.groupField = field
}

// SetLocalParameter sets a free-form passthrough parameter.
func (r *Relation) SetLocalParameter(key, value string) {
	if r.frozen {
		return
	}
	r.local[key] = value
}

// SetFieldParam sets an f.<field>.<key> parameter without registering the
// field as a facet request. Used for pivot and query facets, where per-field
// options still apply but no facet.field entry exists.
func (r *Relation) SetFieldParam(field, key, value string) {
	if r.frozen {
		return
	}
	r.local["f."+field+"."+key] = value
}

// ExcludeCategory drops a whole family of settings from the relation:
// CategoryFacet removes every facet request, query, pivot and facet.*
// parameter; CategoryGroup removes grouping; CategorySpellcheck removes
// spellcheck directives.
func (r *Relation) ExcludeCategory(category string) {
	if r.frozen {
		return
	}
	switch category {
	case CategoryFacet:
		r.facetFields = nil
		r.facetQueries = nil
		r.facetPivots = nil
		r.facetOpts = make(map[string]FacetOptions)
		r.dropLocalPrefix("facet")
		for k := range r.local {
			if strings.HasPrefix(k, "f.") && strings.Contains(k, ".facet.") {
				delete(r.local, k)
			}
		}
	case CategoryGroup:
		r.groupField = ""
		r.dropLocalPrefix("group")
	case CategorySpellcheck:
		r.dropLocalPrefix("spellcheck")
	}
}

func (r *Relation) dropLocalPrefix(prefix string) {
	for k := range r.local {
		if strings.HasPrefix(k, prefix) {
			delete(r.local, k)
		}
	}
}

// Query returns the free-text query.
func (r *Relation) Query() string { return r.query }

// Handler returns the named request handler, if any.
func (r *Relation) Handler() string { return r.handler }

// Parser returns the query-parser type, if any.
func (r *Relation) Parser() string { return r.parser }

// Filters returns the rendered filter clauses in insertion order.
func (r *Relation) Filters() []string { return r.filters }

// FacetFields returns the requested facet field names in insertion order.
func (r *Relation) FacetFields() []string { return r.facetFields }

// FacetOptionsFor returns the per-field options for a facet field.
func (r *Relation) FacetOptionsFor(field string) (FacetOptions, bool) {
	opts, ok := r.facetOpts[field]
	return opts, ok
}

// SelectedFields returns the projection list.
func (r *Relation) SelectedFields() []string { return r.selectFields }

// HighlightFields returns the highlighting list.
func (r *Relation) HighlightFields() []string { return r.highlightFields }

// Offset returns the result window start.
func (r *Relation) Offset() int { return r.offset }

// Limit returns the result window size and whether one was set.
func (r *Relation) Limit() (int, bool) { return r.limit, r.hasLimit }

// Sort returns the assembled sort clause.
func (r *Relation) Sort() string { return strings.Join(r.sorts, ",") }

// GroupField returns the grouping field, or "" when grouping is off.
func (r *Relation) GroupField() string { return r.groupField }

// LocalParameter returns a free-form parameter previously set.
func (r *Relation) LocalParameter(key string) (string, bool) {
	v, ok := r.local[key]
	return v, ok
}

// Values assembles the outbound engine parameter set. Assembly is
// deterministic: the same relation state always yields byte-identical
// encoded parameters.
func (r *Relation) Values() url.Values {
	v := url.Values{}
	if r.query != "" {
		v.Set("q", r.query)
	}
	if r.parser != "" {
		v.Set("defType", r.parser)
	}
	for _, f := range r.filters {
		v.Add("fq", f)
	}
	if len(r.facetFields)+len(r.facetQueries)+len(r.facetPivots) > 0 {
		v.Set("facet", "true")
	}
	for _, field := range r.facetFields {
		entry := field
		if opts := r.facetOpts[field]; opts.ExTag != "" {
			entry = fmt.Sprintf("{!ex=%s}%s", opts.ExTag, field)
		}
		v.Add("facet.field", entry)
	}
	for _, q := range r.facetQueries {
		v.Add("facet.query", q)
	}
	for _, p := range r.facetPivots {
		v.Add("facet.pivot", p)
	}
	for _, field := range sortedKeys(r.facetOpts) {
		opts := r.facetOpts[field]
		prefix := "f." + field + "."
		if opts.HasLimit {
			v.Set(prefix+"facet.limit", strconv.Itoa(opts.Limit))
		}
		if opts.HasOffset {
			v.Set(prefix+"facet.offset", strconv.Itoa(opts.Offset))
		}
		if opts.Sort != "" {
			v.Set(prefix+"facet.sort", opts.Sort)
		}
		for _, k := range sortedKeys(opts.Params) {
			v.Set(prefix+k, opts.Params[k])
		}
	}
	if len(r.selectFields) > 0 {
		v.Set("fl", strings.Join(r.selectFields, ","))
	}
	if len(r.highlightFields) > 0 {
		v.Set("hl", "true")
		v.Set("hl.fl", strings.Join(r.highlightFields, ","))
	}
	if len(r.sorts) > 0 {
		v.Set("sort", strings.Join(r.sorts, ","))
	}
	if r.hasLimit {
		v.Set("rows", strconv.Itoa(r.limit))
	}
	if r.offset > 0 {
		v.Set("start", strconv.Itoa(r.offset))
	}
	if r.handler != "" {
		v.Set("qt", r.handler)
	}
	if r.groupField != "" {
		v.Set("group", "true")
		v.Set("group.field", r.groupField)
	}
	for _, k := range sortedKeys(r.local) {
		v.Set(k, r.local[k])
	}
	return v
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
