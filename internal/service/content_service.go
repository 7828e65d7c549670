// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/config"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/repository"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/kafka"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/llm"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/storage"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/tasks"
	"gorm.io/gorm"
)

// 生成流程的错误分类。每一类都映射到对外可区分的状态码。
var (
	// ErrGenerationFailed 表示模型调用本身失败（网络、配额、超时等）。
	ErrGenerationFailed = errors.New("ai generation failed")
	// ErrSaveResults 表示生成成功但帖子写库失败。
	ErrSaveResults = errors.New("failed to save generated posts")
	// ErrProjectNotFound 表示查询的项目不存在。
	ErrProjectNotFound = errors.New("project not found")
)

// ContentService 定义了内容生成业务的接口。
type ContentService interface {
	Generate(ctx context.Context, req model.ContentRequest) (*model.ContentResponse, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, projectID uint) (*model.ContentResponse, error)
}

type contentService struct {
	projectRepo repository.ProjectRepository
	postRepo    repository.PostRepository
	resultCache repository.ResultCacheRepository
	llmClient   llm.Client
	minioCfg    config.MinIOConfig
	cacheTTL    time.Duration
}

// NewContentService 创建一个新的 ContentService 实例。
func NewContentService(
	projectRepo repository.ProjectRepository,
	postRepo repository.PostRepository,
	resultCache repository.ResultCacheRepository,
	llmClient llm.Client,
	minioCfg config.MinIOConfig,
	cacheTTL time.Duration,
) ContentService {
	return &contentService{
		projectRepo: projectRepo,
		postRepo:    postRepo,
		resultCache: resultCache,
		llmClient:   llmClient,
		minioCfg:    minioCfg,
		cacheTTL:    cacheTTL,
	}
}

// Generate 执行完整的生成流程：
// 落项目记录 → 构建提示词 → 调用模型 → 归一化 → 整批保存帖子 → 组装响应。
// 全程串行，单次调用，不重试。
func (s *contentService) Generate(ctx context.Context, req model.ContentRequest) (*model.ContentResponse, error) {
	// 1. 先提交项目记录。之后任何一步失败都不回滚这条记录，
	//    保证每次请求都有据可查（孤儿项目是已接受的行为）。
	project := &model.Project{
		BusinessName: req.BusinessName,
		Industry:     req.Industry,
		Goal:         string(req.BusinessGoal),
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	log.Infof("[ContentService] 项目已保存, ID=%d, business='%s', posts=%d", project.ID, req.BusinessName, req.PostCount())

	// 2. 构建提示词并调用生成模型。
	//    凭证缺失的配置错误由客户端在任何网络调用之前返回，原样上抛。
	prompt := BuildPrompt(req)
	raw, err := s.llmClient.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	// 3. 归一化模型输出。解析失败同样在项目记录提交之后上抛。
	posts, err := NormalizePosts(raw, req.PostCount())
	if err != nil {
		return nil, err
	}
	log.Infof("[ContentService] 模型输出归一化完成, ProjectID=%d, 共 %d 篇", project.ID, len(posts))

	// 4. 整批保存帖子，同一事务提交。
	rows := make([]model.GeneratedPost, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, model.GeneratedPost{
			ProjectID:        project.ID,
			PostNumber:       p.PostNumber,
			Caption:          p.Caption,
			InstagramVersion: p.PlatformVariations.Instagram,
			LinkedinVersion:  p.PlatformVariations.Linkedin,
			FacebookVersion:  p.PlatformVariations.Facebook,
			Hashtags:         model.StringList(p.Hashtags),
			CTA:              p.CTA,
			ImagePrompt:      p.AIImagePrompt,
		})
	}
	if err := s.postRepo.CreateBatch(rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveResults, err)
	}

	resp := &model.ContentResponse{
		ProjectID:      project.ID,
		BusinessName:   req.BusinessName,
		GeneratedPosts: posts,
	}

	// 5. 旁路步骤：结果缓存、索引任务、原始输出归档。失败只记日志，不影响响应。
	if err := s.resultCache.SaveResult(ctx, project.ID, resp, s.cacheTTL); err != nil {
		log.Errorf("[ContentService] 写入结果缓存失败, ProjectID=%d: %v", project.ID, err)
	}
	if err := kafka.ProduceIndexingTask(tasks.PostIndexingTask{
		ProjectID:    project.ID,
		BusinessName: req.BusinessName,
		PostCount:    len(posts),
	}); err != nil {
		log.Warnf("[ContentService] 发送索引任务失败, ProjectID=%d: %v", project.ID, err)
	}
	if storage.MinioClient != nil {
		if err := storage.ArchiveRawOutput(ctx, s.minioCfg.BucketName, project.ID, raw); err != nil {
			log.Warnf("[ContentService] 归档原始输出失败, ProjectID=%d: %v", project.ID, err)
		}
	}

	return resp, nil
}

// ListProjects 按创建时间倒序返回全部历史项目。
func (s *contentService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.FindAll()
}

// GetProject 返回一个项目及其全部帖子。
// 优先命中 Redis 中的完整结果缓存；未命中时从 MySQL 重建。
func (s *contentService) GetProject(ctx context.Context, projectID uint) (*model.ContentResponse, error) {
	cached, err := s.resultCache.GetResult(ctx, projectID)
	if err != nil {
		log.Warnf("[ContentService] 读取结果缓存失败, ProjectID=%d: %v", projectID, err)
	}
	if cached != nil {
		return cached, nil
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	rows, err := s.postRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	posts := make([]model.PostResponse, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, model.PostResponse{
			PostNumber: row.PostNumber,
			Caption:    row.Caption,
			PlatformVariations: model.PlatformVariations{
				Instagram: row.InstagramVersion,
				Linkedin:  row.LinkedinVersion,
				Facebook:  row.FacebookVersion,
			},
			Hashtags:      []string(row.Hashtags),
			CTA:           row.CTA,
			AIImagePrompt: row.ImagePrompt,
			// 建议类字段不落库，缓存过期后回退到分类兜底值
			SuggestedCreativeType: model.CreativeStaticPost,
		})
	}

	return &model.ContentResponse{
		ProjectID:      project.ID,
		BusinessName:   project.BusinessName,
		GeneratedPosts: posts,
	}, nil
}
