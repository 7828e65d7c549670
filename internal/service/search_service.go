// Package service 提供了搜索相关的业务逻辑。
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/elastic/go-elasticsearch/v8"
)

// SearchService 接口定义了对已索引帖子的检索操作。
type SearchService interface {
	SearchPosts(ctx context.Context, query string, topK int) ([]model.PostSearchResult, error)
}

type searchService struct {
	esClient  *elasticsearch.Client
	indexName string
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, indexName string) SearchService {
	return &searchService{
		esClient:  esClient,
		indexName: indexName,
	}
}

// SearchPosts 对帖子文案做关键词检索。
func (s *searchService) SearchPosts(ctx context.Context, query string, topK int) ([]model.PostSearchResult, error) {
	log.Infof("[SearchService] 开始检索帖子, query: '%s', topK: %d", query, topK)

	var buf bytes.Buffer
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"caption", "cta", "business_name", "hashtags"},
			},
		},
		"size": topK,
	}
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
		s.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		log.Errorf("[SearchService] Elasticsearch 返回错误, status: %s, body: %s", res.Status(), string(bodyBytes))
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.PostDocument `json:"_source"`
				Score  float64            `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	results := make([]model.PostSearchResult, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		results = append(results, model.PostSearchResult{
			ProjectID:    hit.Source.ProjectID,
			BusinessName: hit.Source.BusinessName,
			PostNumber:   hit.Source.PostNumber,
			Caption:      hit.Source.Caption,
			Hashtags:     hit.Source.Hashtags,
			CTA:          hit.Source.CTA,
			Score:        hit.Score,
		})
	}
	log.Infof("[SearchService] 检索完成, 命中 %d 条", len(results))
	return results, nil
}
