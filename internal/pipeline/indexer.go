// Package pipeline 定义了帖子索引的后台流程。
package pipeline

import (
	"context"
	"fmt"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/config"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/repository"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/es"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/tasks"
)

// Indexer 封装了帖子索引流程的所有依赖和逻辑。
// 它在 Kafka 消费者侧运行，把一个项目下已落库的帖子写入 Elasticsearch。
type Indexer struct {
	postRepo repository.PostRepository
	esCfg    config.ElasticsearchConfig
}

// NewIndexer 创建一个新的 Indexer 实例。
func NewIndexer(postRepo repository.PostRepository, esCfg config.ElasticsearchConfig) *Indexer {
	return &Indexer{
		postRepo: postRepo,
		esCfg:    esCfg,
	}
}

// Process 是索引任务的主函数，实现 kafka.TaskProcessor 接口。
func (p *Indexer) Process(ctx context.Context, task tasks.PostIndexingTask) error {
	log.Infof("[Indexer] 开始索引项目帖子, ProjectID=%d, business='%s'", task.ProjectID, task.BusinessName)

	// 1. 从 MySQL 读取该项目下的全部帖子（权威数据源）
	posts, err := p.postRepo.FindByProjectID(task.ProjectID)
	if err != nil {
		return fmt.Errorf("读取项目帖子失败: %w", err)
	}
	if len(posts) == 0 {
		log.Warnf("[Indexer] 项目 %d 下没有帖子, 跳过索引", task.ProjectID)
		return nil
	}

	// 2. 逐篇索引到 Elasticsearch
	for _, post := range posts {
		doc := model.PostDocument{
			DocID:        fmt.Sprintf("%d-%d", post.ProjectID, post.PostNumber),
			ProjectID:    post.ProjectID,
			BusinessName: task.BusinessName,
			PostNumber:   post.PostNumber,
			Caption:      post.Caption,
			Hashtags:     []string(post.Hashtags),
			CTA:          post.CTA,
		}
		if err := es.IndexPostDocument(ctx, p.esCfg.IndexName, doc); err != nil {
			return fmt.Errorf("索引帖子失败 (ProjectID=%d, PostNumber=%d): %w", post.ProjectID, post.PostNumber, err)
		}
	}

	log.Infof("[Indexer] 项目 %d 的 %d 篇帖子索引完成", task.ProjectID, len(posts))
	return nil
}
