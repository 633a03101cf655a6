// File: internal/listing/search.go
package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kuwait_portal_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// searchDocument is the shape of a listing in the search index.
type searchDocument struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	OwnerID     string    `json:"owner_id"`
	Price       *float64  `json:"price,omitempty"`
	Tier        Tier      `json:"tier"`
	IsApproved  bool      `json:"is_approved"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSearchDocument(l *Listing) searchDocument {
	return searchDocument{
		Kind:        l.Kind,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Location:    l.Location,
		OwnerID:     l.OwnerID.String(),
		Price:       l.Price,
		Tier:        l.Tier,
		IsApproved:  l.IsApproved,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
	}
}

// SearchIndexer keeps the listings search index in sync and runs full-text
// queries against it. A nil *SearchIndexer is valid and means search is
// served from the database instead.
type SearchIndexer struct {
	es     *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

// NewSearchIndexer creates a SearchIndexer. Returns nil when the search
// cluster is not configured.
func NewSearchIndexer(es *elasticsearch.ESClientWrapper, logger *zap.Logger) *SearchIndexer {
	if es == nil {
		return nil
	}
	return &SearchIndexer{es: es, logger: logger.Named("listing_search")}
}

// Enabled reports whether a search cluster is wired up.
func (s *SearchIndexer) Enabled() bool {
	return s != nil
}

// Index writes or overwrites the listing's search document.
func (s *SearchIndexer) Index(ctx context.Context, l *Listing) error {
	if s == nil {
		return nil
	}
	body, err := json.Marshal(toSearchDocument(l))
	if err != nil {
		return fmt.Errorf("marshalling listing %s for indexing: %w", l.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      elasticsearch.ListingsIndexName,
		DocumentID: l.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return fmt.Errorf("indexing listing %s: %w", l.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing listing %s: status %s", l.ID, res.Status())
	}
	return nil
}

// Delete removes the listing's search document. A missing document is not
// an error.
func (s *SearchIndexer) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil {
		return nil
	}
	req := esapi.DeleteRequest{
		Index:      elasticsearch.ListingsIndexName,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return fmt.Errorf("deleting listing %s from index: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting listing %s from index: status %s", id, res.Status())
	}
	return nil
}

// Search runs a full-text query and returns matching listing IDs in
// relevance order, plus the total hit count.
func (s *SearchIndexer) Search(ctx context.Context, query PublicListingsQuery) ([]uuid.UUID, int64, error) {
	if s == nil {
		return nil, 0, fmt.Errorf("search index not configured")
	}

	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"is_approved": true}},
		{"term": map[string]interface{}{"is_published": true}},
	}
	if query.Kind != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"kind": query.Kind}})
	}
	if query.Category != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"category": query.Category}})
	}

	esQuery := map[string]interface{}{
		"from": (query.Page - 1) * query.PageSize,
		"size": query.PageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query.Search,
						"fields": []string{"title^3", "description", "location"},
					},
				},
				"filter": filters,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, 0, fmt.Errorf("encoding search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(elasticsearch.ListingsIndexName),
		s.es.Search.WithBody(&buf),
		s.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("executing listing search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("executing listing search: status %s", res.Status())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			s.logger.Warn("Skipping search hit with malformed id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, result.Hits.Total.Value, nil
}
