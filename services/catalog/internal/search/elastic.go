package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"

	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
)

// maxHits matches the default index.max_result_window.
const maxHits = 10000

// ErrTruncated means more documents matched than one response can carry.
var ErrTruncated = errors.New("search result truncated")

// keyword sub-fields longer than this are not indexed and cannot match.
const maxKeywordChars = 8191

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id": map[string]any{"type": "keyword"},
			"name": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword", "ignore_above": maxKeywordChars}},
			},
			"description": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword", "ignore_above": maxKeywordChars}},
			},
			"category":   map[string]any{"type": "keyword"},
			"price":      map[string]any{"type": "double"},
			"rating":     map[string]any{"type": "double"},
			"created_at": map[string]any{"type": "date"},
			"updated_at": map[string]any{"type": "date"},
		},
	},
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}
	return client, nil
}

// Elastic keeps a products index in sync and answers substring queries.
type Elastic struct {
	client *elasticsearch.Client
	index  string
}

func NewElastic(client *elasticsearch.Client, index string) *Elastic {
	return &Elastic{client: client, index: index}
}

func (s *Elastic) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	exists.Body.Close()
	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("elasticsearch index exists: %s", exists.Status())
	}

	body, err := encode(indexMapping)
	if err != nil {
		return err
	}
	res, err := s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (s *Elastic) Index(ctx context.Context, p models.Product) error {
	body, err := encode(p)
	if err != nil {
		return err
	}
	res, err := s.client.Index(s.index, body,
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(p.ID.String()),
		s.client.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res)
	}
	return nil
}

// Delete treats a missing document as already deleted.
func (s *Elastic) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.client.Delete(s.index, id.String(),
		s.client.Delete.WithContext(ctx),
		s.client.Delete.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res)
	}
	return nil
}

func (s *Elastic) Search(ctx context.Context, q string) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if strings.TrimSpace(q) == "" {
		return items, nil
	}

	body, err := encode(searchQuery(q))
	if err != nil {
		return nil, err
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search products", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if r.Hits.Total.Value > len(r.Hits.Hits) {
		return nil, fmt.Errorf("%w: %d of %d hits", ErrTruncated, len(r.Hits.Hits), r.Hits.Total.Value)
	}

	for _, hit := range r.Hits.Hits {
		items = append(items, hit.Source)
	}
	return items, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func searchQuery(q string) map[string]any {
	pattern := "*" + wildcardEscaper.Replace(q) + "*"
	wildcard := func(field string) map[string]any {
		return map[string]any{
			"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			},
		}
	}

	return map[string]any{
		"size":             maxHits,
		"track_total_hits": true,
		"query": map[string]any{
			"bool": map[string]any{
				"should":               []any{wildcard("name.raw"), wildcard("description.raw")},
				"minimum_should_match": 1,
			},
		},
		"sort": []any{
			map[string]any{"created_at": "asc"},
			map[string]any{"id": "asc"},
		},
	}
}

func encode(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &buf, nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}
