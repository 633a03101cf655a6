// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ListingsIndexName is the index holding searchable listings.
const ListingsIndexName = "listings"

// defineListingsMapping returns the JSON mapping for the listings index.
// Only approved, published listings are ever indexed, but the visibility
// flags are stored anyway so stale documents can be filtered at query time.
func defineListingsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"kind":         map[string]interface{}{"type": "keyword"},
				"title":        map[string]interface{}{"type": "text"},
				"description":  map[string]interface{}{"type": "text"},
				"category":     map[string]interface{}{"type": "keyword"},
				"location":     map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"owner_id":     map[string]interface{}{"type": "keyword"},
				"price":        map[string]interface{}{"type": "double"},
				"tier":         map[string]interface{}{"type": "keyword"},
				"is_approved":  map[string]interface{}{"type": "boolean"},
				"is_published": map[string]interface{}{"type": "boolean"},
				"created_at":   map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling listings mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateListingsIndexIfNotExists creates the listings index with its mapping
// unless it already exists.
func CreateListingsIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	if client == nil {
		return nil
	}
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{Index: []string{ListingsIndexName}}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if listings index exists", zap.Error(err))
		return fmt.Errorf("error checking if listings index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Listings index already exists", zap.String("index_name", ListingsIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Unexpected status checking listings index", zap.String("status", res.Status()))
		return fmt.Errorf("error checking if listings index exists: status %s", res.Status())
	}

	mappingJSON, err := defineListingsMapping()
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: ListingsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating listings index", zap.Error(err))
		return fmt.Errorf("error creating listings index %s: %w", ListingsIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err == nil {
			log.Error("Failed to create listings index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
			)
		}
		return fmt.Errorf("failed to create listings index %s: status %s", ListingsIndexName, createRes.Status())
	}

	log.Info("Listings index created", zap.String("index_name", ListingsIndexName))
	return nil
}
