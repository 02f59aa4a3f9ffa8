// internal/search/clients.go
// Package search mirrors client profiles into Elasticsearch for the advisor
// dashboard. Indexing is best effort: the Postgres row is the source of
// truth, and a failed mirror write degrades to an unsearchable profile, not a
// failed request.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

type ClientIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// Hit is one search result row, trimmed to what the dashboard lists.
type Hit struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"displayName"`
	StatutDossier string  `json:"statutDossier,omitempty"`
	Score         float64 `json:"score"`
}

func NewClientIndex(client *elasticsearch.Client, index string, log logger.Logger) *ClientIndex {
	return &ClientIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "client-index"}),
	}
}

type clientDocument struct {
	ID            string   `json:"id"`
	AdvisorID     string   `json:"advisor_id"`
	DisplayName   string   `json:"display_name"`
	Email         string   `json:"email,omitempty"`
	StatutDossier string   `json:"statut_dossier,omitempty"`
	Objectifs     []string `json:"objectifs,omitempty"`
}

// Index mirrors one profile into the search index.
func (c *ClientIndex) Index(ctx context.Context, advisorID string, profile *models.ClientProfile) error {
	doc := clientDocument{
		ID:          profile.ID,
		AdvisorID:   advisorID,
		DisplayName: profile.DisplayName(),
		Objectifs:   profile.ObjectifsFiscaux,
	}
	if profile.Email != nil {
		doc.Email = *profile.Email
	}
	if profile.StatutDossier != nil {
		doc.StatutDossier = *profile.StatutDossier
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal client document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: profile.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index client document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request failed: %s", res.Status())
	}
	return nil
}

// Delete removes a profile from the index.
func (c *ClientIndex) Delete(ctx context.Context, clientID string) error {
	req := esapi.DeleteRequest{
		Index:      c.index,
		DocumentID: clientID,
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete client document: %w", err)
	}
	defer res.Body.Close()

	// A missing document is already deleted.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete request failed: %s", res.Status())
	}
	return nil
}

// Search finds an advisor's clients by free text across name, email and
// declared objectives.
func (c *ClientIndex) Search(ctx context.Context, advisorID, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 20
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"fields": []string{"display_name^3", "email", "objectifs"},
							"type":   "best_fields",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"advisor_id": advisorID},
					},
				},
			},
		},
	}
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search request failed: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64        `json:"_score"`
				Source clientDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{
			ID:            h.Source.ID,
			DisplayName:   h.Source.DisplayName,
			StatutDossier: h.Source.StatutDossier,
			Score:         h.Score,
		})
	}
	return hits, nil
}
