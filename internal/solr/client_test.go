package solr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/query"
)

const okBody = `{
	"responseHeader": {"status": 0, "QTime": 1, "params": {}},
	"response": {"numFound": 1, "start": 0, "docs": [{"id": "doc-1"}]}
}`

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "absolute URL", baseURL: "http://localhost:8983/solr/catalog", wantErr: false},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/solr/catalog", wantErr: true},
		{name: "no scheme", baseURL: "localhost:8983", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	var gotPath string
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	rel := query.NewRelation(0)
	rel.SetQuery("*:*")
	resp, err := c.Execute(context.Background(), rel, "")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if gotPath != "/select" {
		t.Errorf("request path = %q, want /select", gotPath)
	}
	if gotQuery != "q=%2A%3A%2A&wt=json" {
		t.Errorf("request query = %q", gotQuery)
	}
	if resp.Data.NumFound != 1 {
		t.Errorf("numFound = %d", resp.Data.NumFound)
	}
	if !rel.Frozen() {
		t.Error("relation not frozen after submission")
	}
}

func TestExecuteHandlerResolution(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithDefaultHandler("search"))
	if err != nil {
		t.Fatal(err)
	}

	// client default
	if _, err := c.Execute(context.Background(), query.NewRelation(0), ""); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/search" {
		t.Errorf("default handler path = %q, want /search", gotPath)
	}

	// relation handler beats the client default
	rel := query.NewRelation(0)
	rel.SetHandler("author_search")
	if _, err := c.Execute(context.Background(), rel, ""); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/author_search" {
		t.Errorf("relation handler path = %q, want /author_search", gotPath)
	}

	// explicit endpoint beats both
	rel2 := query.NewRelation(0)
	rel2.SetHandler("author_search")
	if _, err := c.Execute(context.Background(), rel2, "document"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/document" {
		t.Errorf("explicit endpoint path = %q, want /document", gotPath)
	}
}

func TestExecuteConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Execute(context.Background(), query.NewRelation(0), "")
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("connection failure error = %v, want ErrEngineUnavailable", err)
	}
}

func TestExecuteEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"responseHeader": {"status": 400, "QTime": 0, "params": {}},
			"error": {"msg": "undefined field bogus", "code": 400}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Execute(context.Background(), query.NewRelation(0), "")
	if err == nil {
		t.Fatal("expected an error for an engine error payload")
	}
	if errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("engine error misclassified as unavailable: %v", err)
	}
}

func TestExecuteNonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Execute(context.Background(), query.NewRelation(0), "")
	if err == nil {
		t.Fatal("expected an error for a non-JSON failure body")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/ping" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status": "OK"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("ping after shutdown = %v, want ErrEngineUnavailable", err)
	}
}
