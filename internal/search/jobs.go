// Package search indexes jobs into Elasticsearch and serves full-text queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"clipers-engine/internal/models"
)

// JobIndex writes and queries the job search index. Indexing is best-effort:
// a job that fails to index is still created, it is just not searchable until
// the next write.
type JobIndex struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

func NewJobIndex(client *elasticsearch.Client, index string, logger *zap.Logger) *JobIndex {
	return &JobIndex{client: client, index: index, logger: logger}
}

type jobDocument struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"companyId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Active      bool     `json:"active"`
}

// Index writes the job document, replacing any previous version.
func (i *JobIndex) Index(ctx context.Context, job *models.Job) error {
	doc := jobDocument{
		ID:          job.ID,
		CompanyID:   job.CompanyID,
		Title:       job.Title,
		Description: job.Description,
		Skills:      job.Skills,
		Location:    job.Location,
		Type:        string(job.Type),
		Active:      job.Active,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal job document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(payload),
		i.client.Index.WithDocumentID(job.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job: %s", res.Status())
	}
	i.logger.Debug("Job indexed", zap.String("job_id", job.ID))
	return nil
}

// Search runs a full-text query over title, description and skills, returning
// matching job IDs in relevance order.
func (i *JobIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title^2", "description", "skills"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"active": true},
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(strings.NewReader(string(payload))),
	)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
