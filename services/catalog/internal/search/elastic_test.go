package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(r *http.Request) (int, string)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()

	code, out := f.respond(r)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, out)
}

func newFake(t *testing.T, respond func(r *http.Request) (int, string)) (*Elastic, *fakeES) {
	t.Helper()

	fake := &fakeES{respond: respond}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewElastic(client, "products"), fake
}

func TestSearchQuery(t *testing.T) {
	t.Parallel()

	q := searchQuery(`Pe*n?\`)
	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var decoded struct {
		Size  int `json:"size"`
		Query struct {
			Bool struct {
				Should []map[string]map[string]struct {
					Value           string `json:"value"`
					CaseInsensitive bool   `json:"case_insensitive"`
				} `json:"should"`
				MinimumShouldMatch int `json:"minimum_should_match"`
			} `json:"bool"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, maxHits, decoded.Size)
	assert.Contains(t, string(raw), `"track_total_hits":true`)
	assert.Equal(t, 1, decoded.Query.Bool.MinimumShouldMatch)
	require.Len(t, decoded.Query.Bool.Should, 2)

	name := decoded.Query.Bool.Should[0]["wildcard"]["name.raw"]
	assert.Equal(t, `*Pe\*n\?\\*`, name.Value)
	assert.True(t, name.CaseInsensitive)

	desc := decoded.Query.Bool.Should[1]["wildcard"]["description.raw"]
	assert.Equal(t, name.Value, desc.Value)
}

func TestElastic_EnsureIndex_CreatesWhenMissing(t *testing.T) {
	es, fake := newFake(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusOK, `{"acknowledged":true}`
	})

	require.NoError(t, es.EnsureIndex(context.Background()))
	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodHead, fake.requests[0].Method)
	assert.Equal(t, http.MethodPut, fake.requests[1].Method)
	assert.Equal(t, "/products", fake.requests[1].Path)
	assert.Contains(t, fake.requests[1].Body, `"raw"`)
	assert.Contains(t, fake.requests[1].Body, `"keyword"`)
}

func TestElastic_EnsureIndex_Existing(t *testing.T) {
	es, fake := newFake(t, func(*http.Request) (int, string) { return http.StatusOK, "" })

	require.NoError(t, es.EnsureIndex(context.Background()))
	assert.Len(t, fake.requests, 1)
}

func TestElastic_IndexAndDelete(t *testing.T) {
	es, fake := newFake(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodDelete {
			return http.StatusNotFound, `{"result":"not_found"}`
		}
		return http.StatusCreated, `{"result":"created"}`
	})
	ctx := context.Background()

	p := models.Product{ID: uuid.New(), Name: "Pen", Category: "Stationery", Price: 10, Rating: 4}
	require.NoError(t, es.Index(ctx, p))
	require.NoError(t, es.Delete(ctx, p.ID))

	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodPut, fake.requests[0].Method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), fake.requests[0].Path)
	assert.Contains(t, fake.requests[0].Query, "refresh=wait_for")

	var indexed models.Product
	require.NoError(t, json.Unmarshal([]byte(fake.requests[0].Body), &indexed))
	assert.Equal(t, p.ID, indexed.ID)
	assert.Equal(t, "Pen", indexed.Name)

	assert.Equal(t, http.MethodDelete, fake.requests[1].Method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), fake.requests[1].Path)
}

func TestElastic_DeleteServerError(t *testing.T) {
	es, _ := newFake(t, func(*http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	err := es.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestElastic_Search(t *testing.T) {
	id := uuid.New()
	es, fake := newFake(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"` + id.String() + `","name":"Pen","category":"Stationery","price":10,"rating":4}}]}}`
	})
	ctx := context.Background()

	items, err := es.Search(ctx, "pen")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Pen", items[0].Name)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "/products/_search", fake.requests[0].Path)
	assert.Contains(t, fake.requests[0].Body, `"*pen*"`)

	items, err = es.Search(ctx, "  ")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Len(t, fake.requests, 1, "blank query must not reach elasticsearch")
}

func TestElastic_SearchTruncated(t *testing.T) {
	es, _ := newFake(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"total":{"value":10001},"hits":[{"_source":{"name":"Pen"}}]}}`
	})

	_, err := es.Search(context.Background(), "pen")
	require.ErrorIs(t, err, ErrTruncated)
}
