package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

// SearchService mirrors photos into Elasticsearch and answers full-text
// queries over descriptions and tags.
type SearchService struct {
	ES    *elasticsearch.Client
	Index string
}

type PhotoDoc struct {
	ID          uint     `json:"id"`
	OwnerID     uint     `json:"owner_id"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func docFromPhoto(p models.Photo) PhotoDoc {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t.Name
	}
	return PhotoDoc{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		URL:         p.URL,
		Description: p.Description,
		Tags:        tags,
	}
}

func (s *SearchService) IndexPhoto(ctx context.Context, p models.Photo) error {
	doc := docFromPhoto(p)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal photo doc: %w", err)
	}

	res, err := s.ES.Index(
		s.Index,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(strconv.Itoa(int(p.ID))),
	)
	if err != nil {
		return fmt.Errorf("index photo: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index photo: %s", res.Status())
	}
	return nil
}

func (s *SearchService) RemovePhoto(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(
		s.Index,
		strconv.Itoa(int(id)),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("remove photo: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove photo: %s", res.Status())
	}
	return nil
}

func (s *SearchService) Search(ctx context.Context, query string, from, size int) (int64, []PhotoDoc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"description^2", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source PhotoDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]PhotoDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
