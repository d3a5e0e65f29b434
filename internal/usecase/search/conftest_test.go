package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/query"
	"github.com/solrdex/solrdex/internal/solr"
)

// mockExecutor records every submitted relation and replays canned responses
// in order, falling back to the last one.
type mockExecutor struct {
	relations []*query.Relation
	endpoints []string
	responses []*solr.Response
	err       error
}

func (m *mockExecutor) Execute(_ context.Context, rel *query.Relation, endpoint string) (*solr.Response, error) {
	m.relations = append(m.relations, rel)
	m.endpoints = append(m.endpoints, endpoint)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return emptyResponse(), nil
	}
	i := len(m.relations) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func (m *mockExecutor) last() *query.Relation {
	if len(m.relations) == 0 {
		return nil
	}
	return m.relations[len(m.relations)-1]
}

func emptyResponse() *solr.Response {
	return &solr.Response{
		Header: solr.ResponseHeader{Params: solr.EchoedParams{}},
	}
}

func docsResponse(ids ...string) *solr.Response {
	resp := emptyResponse()
	resp.Data.NumFound = int64(len(ids))
	for _, id := range ids {
		resp.Data.Docs = append(resp.Data.Docs, domain.Document{"id": id})
	}
	return resp
}

func newTestService(exec Executor, mutate ...func(*config.Config)) *Service {
	cfg := config.Default()
	cfg.Search.DefaultPerPage = 10
	cfg.Search.MaxPerPage = 100
	for _, m := range mutate {
		m(&cfg)
	}
	return New(exec, &cfg, zap.NewNop())
}
