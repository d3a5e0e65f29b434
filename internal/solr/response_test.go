package solr

import (
	"encoding/json"
	"testing"
)

func TestResponseDecode(t *testing.T) {
	payload := `{
		"responseHeader": {
			"status": 0,
			"QTime": 12,
			"params": {
				"q": "dark matter",
				"rows": "10",
				"fq": ["format:\"Book\"", "language:\"English\""],
				"f.format.facet.limit": "11"
			}
		},
		"response": {
			"numFound": 42,
			"start": 10,
			"docs": [
				{"id": "doc-1", "title_display": "First"},
				{"id": "doc-2", "title_display": "Second"}
			]
		},
		"facet_counts": {
			"facet_fields": {
				"format": ["Book", 30, "Journal", 12]
			},
			"facet_queries": {
				"pub_date:[NOW-1YEAR TO NOW]": 7
			}
		}
	}`

	var resp Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Header.Status != 0 || resp.Header.QTime != 12 {
		t.Errorf("header = %+v", resp.Header)
	}
	if resp.Data.NumFound != 42 || resp.Data.Start != 10 || len(resp.Data.Docs) != 2 {
		t.Errorf("result set = %+v", resp.Data)
	}
	if got := resp.Data.Docs[0].First("id"); got != "doc-1" {
		t.Errorf("first doc id = %q", got)
	}

	list := resp.FacetField("format")
	if len(list) != 2 {
		t.Fatalf("facet list = %v", list)
	}
	if list[0].Value != "Book" || list[0].Count != 30 {
		t.Errorf("facet bucket = %+v", list[0])
	}
	if list[1].Value != "Journal" || list[1].Count != 12 {
		t.Errorf("facet bucket = %+v", list[1])
	}
	if n := resp.Facets.Queries["pub_date:[NOW-1YEAR TO NOW]"]; n != 7 {
		t.Errorf("facet query count = %d", n)
	}
	if resp.IsGrouped() {
		t.Error("flat response reported as grouped")
	}
}

func TestFacetValueListOddLength(t *testing.T) {
	var list FacetValueList
	err := json.Unmarshal([]byte(`["Book", 30, "Journal"]`), &list)
	if err == nil {
		t.Fatal("expected error for odd-length facet array")
	}
}

func TestEchoedParams(t *testing.T) {
	params := EchoedParams{
		"q":       "text",
		"rows":    "10",
		"fq":      []any{"a", "b"},
		"qtime":   float64(3),
		"empties": []any{},
	}

	if got, ok := params.Get("q"); !ok || got != "text" {
		t.Errorf("Get(q) = %q, %v", got, ok)
	}
	if got, ok := params.Get("fq"); !ok || got != "a" {
		t.Errorf("Get on a repeated param should return the first value, got %q", got)
	}
	if got, ok := params.Get("qtime"); !ok || got != "3" {
		t.Errorf("Get on a numeric echo = %q", got)
	}
	if _, ok := params.Get("empties"); ok {
		t.Error("Get on an empty array should miss")
	}
	if _, ok := params.Get("absent"); ok {
		t.Error("Get on an absent key should miss")
	}

	if n, ok := params.Int("rows"); !ok || n != 10 {
		t.Errorf("Int(rows) = %d, %v", n, ok)
	}
	if _, ok := params.Int("q"); ok {
		t.Error("Int on a non-numeric echo should miss")
	}
}

func TestGroupedResponse(t *testing.T) {
	payload := `{
		"responseHeader": {"status": 0, "QTime": 5, "params": {}},
		"grouped": {
			"dedup_key": {
				"matches": 17,
				"groups": [
					{"groupValue": "g1", "doclist": {"numFound": 3, "start": 0, "docs": [{"id": "a"}]}},
					{"groupValue": "g2", "doclist": {"numFound": 2, "start": 0, "docs": [{"id": "b"}, {"id": "c"}]}}
				]
			}
		}
	}`

	var resp Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsGrouped() {
		t.Fatal("grouped response not detected")
	}

	grouped := resp.Grouped["dedup_key"]
	if grouped.Matches != 17 || len(grouped.Groups) != 2 {
		t.Fatalf("grouped = %+v", grouped)
	}
	docs := grouped.Docs()
	if len(docs) != 3 {
		t.Fatalf("flattened docs = %d, want 3", len(docs))
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if got := docs[i].First("id"); got != id {
			t.Errorf("docs[%d] id = %q, want %q", i, got, id)
		}
	}
}
