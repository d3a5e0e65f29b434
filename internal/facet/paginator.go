// Package facet provides cursor-style browsing over one facet's value list.
package facet

import "github.com/solrdex/solrdex/internal/solr"

// Paginator is a stateless cursor over one facet field's value list,
// reconstructed from a response's echoed request parameters. It borrows the
// value list from the response and performs no network activity.
type Paginator struct {
	field  string
	values solr.FacetValueList
	offset int
	limit  int // display page size; 0 means unlimited
	sort   string
}

// FromResponse builds a paginator for one facet field. The display limit is
// the engine limit minus one, reversing the pipeline's over-fetch; the sort
// falls back from the per-field parameter to the global facet.sort, then to
// the engine's own default (count when limited, index otherwise).
func FromResponse(resp *solr.Response, field string) *Paginator {
	p := &Paginator{
		field:  field,
		values: resp.FacetField(field),
	}

	prefix := "f." + field + "."
	if offset, ok := resp.Header.Params.Int(prefix + "facet.offset"); ok && offset > 0 {
		p.offset = offset
	}
	if limit, ok := resp.Header.Params.Int(prefix + "facet.limit"); ok && limit > 0 {
		p.limit = limit - 1
	}

	if s, ok := resp.Param(prefix + "facet.sort"); ok {
		p.sort = s
	} else if s, ok := resp.Param("facet.sort"); ok {
		p.sort = s
	} else if p.limit > 0 {
		p.sort = "count"
	} else {
		p.sort = "index"
	}
	return p
}

// Field returns the facet field name.
func (p *Paginator) Field() string { return p.field }

// Values returns the current page of facet values, excluding the over-fetched
// extra entry.
func (p *Paginator) Values() []solr.FacetValue {
	if p.limit > 0 && len(p.values) > p.limit {
		return p.values[:p.limit]
	}
	return p.values
}

// HasNext reports whether a further page of values exists. This is exactly
// the over-fetch check: the engine returned more values than the display
// limit.
func (p *Paginator) HasNext() bool {
	return p.limit > 0 && len(p.values) > p.limit
}

// HasPrevious reports whether an earlier page exists.
func (p *Paginator) HasPrevious() bool { return p.offset > 0 }

// Offset returns the current page's starting offset.
func (p *Paginator) Offset() int { return p.offset }

// Limit returns the display page size (0 = unlimited).
func (p *Paginator) Limit() int { return p.limit }

// NextOffset returns the offset of the following page.
func (p *Paginator) NextOffset() int { return p.offset + p.limit }

// PrevOffset returns the offset of the preceding page, clamped to zero.
func (p *Paginator) PrevOffset() int {
	prev := p.offset - p.limit
	if prev < 0 {
		prev = 0
	}
	return prev
}

// Sort returns the effective facet sort key.
func (p *Paginator) Sort() string { return p.sort }
