package search

import (
	"context"

	"github.com/solrdex/solrdex/internal/query"
	"github.com/solrdex/solrdex/internal/solr"
)

// Executor defines the engine contract for search operations.
type Executor interface {
	Execute(ctx context.Context, rel *query.Relation, endpoint string) (*solr.Response, error)
}
