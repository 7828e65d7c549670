package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/config"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/llm"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log.Init("error", "json", "")
	m.Run()
}

// ---- 测试替身 ----

type fakeProjectRepo struct {
	created   []*model.Project
	createErr error
	findErr   error
	projects  []model.Project
}

func (f *fakeProjectRepo) Create(project *model.Project) error {
	if f.createErr != nil {
		return f.createErr
	}
	project.ID = uint(len(f.created) + 1)
	f.created = append(f.created, project)
	return nil
}

func (f *fakeProjectRepo) FindByID(projectID uint) (*model.Project, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i := range f.projects {
		if f.projects[i].ID == projectID {
			return &f.projects[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProjectRepo) FindAll() ([]model.Project, error) {
	return f.projects, nil
}

type fakePostRepo struct {
	saved     []model.GeneratedPost
	createErr error
}

func (f *fakePostRepo) CreateBatch(posts []model.GeneratedPost) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.saved = append(f.saved, posts...)
	return nil
}

func (f *fakePostRepo) FindByProjectID(projectID uint) ([]model.GeneratedPost, error) {
	var out []model.GeneratedPost
	for _, p := range f.saved {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeResultCache struct {
	results map[uint]*model.ContentResponse
	saveErr error
	getErr  error
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{results: make(map[uint]*model.ContentResponse)}
}

func (f *fakeResultCache) SaveResult(ctx context.Context, projectID uint, result *model.ContentResponse, ttl time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.results[projectID] = result
	return nil
}

func (f *fakeResultCache) GetResult(ctx context.Context, projectID uint) (*model.ContentResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.results[projectID], nil
}

type fakeLLM struct {
	raw     string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

func newTestService(projectRepo *fakeProjectRepo, postRepo *fakePostRepo, cache *fakeResultCache, client *fakeLLM) ContentService {
	return NewContentService(projectRepo, postRepo, cache, client, config.MinIOConfig{}, time.Hour)
}

func validRequest(n *int) model.ContentRequest {
	return model.ContentRequest{
		BusinessName:   "Acme Co",
		Industry:       "Retail",
		TargetAudience: "Young adults",
		Location:       "NYC",
		BusinessGoal:   model.GoalLeads,
		Tone:           model.ToneFriendly,
		NumberOfPosts:  n,
	}
}

// ---- Generate ----

func TestGenerate_Success(t *testing.T) {
	projectRepo := &fakeProjectRepo{}
	postRepo := &fakePostRepo{}
	cache := newFakeResultCache()
	client := &fakeLLM{raw: `[
		{"post_topic": "T1", "caption": "c1",
		 "platform_variations": {"instagram": "i1", "linkedin": "l1", "facebook": "f1"},
		 "hashtags": ["a", "b"], "cta": "Shop now", "ai_image_prompt": "img",
		 "suggested_creative_type": "Reel"},
		{"caption": "c2", "hashtags": "#x #y"}
	]`}
	svc := newTestService(projectRepo, postRepo, cache, client)

	n := 5
	resp, err := svc.Generate(context.Background(), validRequest(&n))
	require.NoError(t, err)

	// 项目记录在生成前写入
	require.Len(t, projectRepo.created, 1)
	assert.Equal(t, "Acme Co", projectRepo.created[0].BusinessName)
	assert.Equal(t, "Retail", projectRepo.created[0].Industry)
	assert.Equal(t, "Leads", projectRepo.created[0].Goal)

	// 响应结构
	assert.Equal(t, uint(1), resp.ProjectID)
	assert.Equal(t, "Acme Co", resp.BusinessName)
	require.Len(t, resp.GeneratedPosts, 2)
	assert.Equal(t, 1, resp.GeneratedPosts[0].PostNumber)
	assert.Equal(t, model.CreativeReel, resp.GeneratedPosts[0].SuggestedCreativeType)
	assert.Equal(t, []string{"x", "y"}, resp.GeneratedPosts[1].Hashtags)

	// 帖子整批落库
	require.Len(t, postRepo.saved, 2)
	assert.Equal(t, uint(1), postRepo.saved[0].ProjectID)
	assert.Equal(t, 2, postRepo.saved[1].PostNumber)
	assert.Equal(t, "i1", postRepo.saved[0].InstagramVersion)
	assert.Equal(t, model.StringList{"a", "b"}, postRepo.saved[0].Hashtags)

	// 完整结果写入缓存
	assert.NotNil(t, cache.results[1])

	// 提示词只构建并发送一次
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Generate 5 social media posts")
}

func TestGenerate_TruncatesToRequestedCount(t *testing.T) {
	client := &fakeLLM{raw: `[{"caption": "1"}, {"caption": "2"}, {"caption": "3"}]`}
	svc := newTestService(&fakeProjectRepo{}, &fakePostRepo{}, newFakeResultCache(), client)

	n := 2
	resp, err := svc.Generate(context.Background(), validRequest(&n))
	require.NoError(t, err)
	require.Len(t, resp.GeneratedPosts, 2)
	assert.Equal(t, 2, resp.GeneratedPosts[1].PostNumber)
}

func TestGenerate_MissingAPIKeyPassesThrough(t *testing.T) {
	projectRepo := &fakeProjectRepo{}
	client := &fakeLLM{err: llm.ErrMissingAPIKey}
	svc := newTestService(projectRepo, &fakePostRepo{}, newFakeResultCache(), client)

	_, err := svc.Generate(context.Background(), validRequest(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
	// 项目记录不回滚
	assert.Len(t, projectRepo.created, 1)
}

func TestGenerate_ModelFailureWrapped(t *testing.T) {
	projectRepo := &fakeProjectRepo{}
	client := &fakeLLM{err: errors.New("upstream timeout")}
	svc := newTestService(projectRepo, &fakePostRepo{}, newFakeResultCache(), client)

	_, err := svc.Generate(context.Background(), validRequest(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "upstream timeout")
	assert.Len(t, projectRepo.created, 1)
}

func TestGenerate_MalformedOutput(t *testing.T) {
	projectRepo := &fakeProjectRepo{}
	postRepo := &fakePostRepo{}
	client := &fakeLLM{raw: "Sure! Here are your posts:"}
	svc := newTestService(projectRepo, postRepo, newFakeResultCache(), client)

	_, err := svc.Generate(context.Background(), validRequest(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)
	// 项目已写入但没有任何帖子
	assert.Len(t, projectRepo.created, 1)
	assert.Empty(t, postRepo.saved)
}

func TestGenerate_SaveFailure(t *testing.T) {
	postRepo := &fakePostRepo{createErr: errors.New("db gone")}
	client := &fakeLLM{raw: `[{"caption": "c"}]`}
	svc := newTestService(&fakeProjectRepo{}, postRepo, newFakeResultCache(), client)

	_, err := svc.Generate(context.Background(), validRequest(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSaveResults)
}

func TestGenerate_CacheFailureDoesNotFailRequest(t *testing.T) {
	cache := newFakeResultCache()
	cache.saveErr = errors.New("redis down")
	client := &fakeLLM{raw: `[{"caption": "c"}]`}
	svc := newTestService(&fakeProjectRepo{}, &fakePostRepo{}, cache, client)

	resp, err := svc.Generate(context.Background(), validRequest(nil))
	require.NoError(t, err)
	assert.Len(t, resp.GeneratedPosts, 1)
}

// ---- GetProject ----

func TestGetProject_CacheHit(t *testing.T) {
	cache := newFakeResultCache()
	cached := &model.ContentResponse{
		ProjectID:    7,
		BusinessName: "Cached Co",
		GeneratedPosts: []model.PostResponse{
			{PostNumber: 1, Caption: "from cache", SuggestedCreativeType: model.CreativeCarousel},
		},
	}
	cache.results[7] = cached
	svc := newTestService(&fakeProjectRepo{}, &fakePostRepo{}, cache, &fakeLLM{})

	resp, err := svc.GetProject(context.Background(), 7)
	require.NoError(t, err)
	// 缓存命中时保留建议类字段
	assert.Equal(t, model.CreativeCarousel, resp.GeneratedPosts[0].SuggestedCreativeType)
	assert.Equal(t, "Cached Co", resp.BusinessName)
}

func TestGetProject_RebuildFromDatabase(t *testing.T) {
	projectRepo := &fakeProjectRepo{projects: []model.Project{{ID: 3, BusinessName: "DB Co"}}}
	postRepo := &fakePostRepo{saved: []model.GeneratedPost{
		{ProjectID: 3, PostNumber: 1, Caption: "stored", InstagramVersion: "ig", Hashtags: model.StringList{"a"}},
	}}
	svc := newTestService(projectRepo, postRepo, newFakeResultCache(), &fakeLLM{})

	resp, err := svc.GetProject(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), resp.ProjectID)
	assert.Equal(t, "DB Co", resp.BusinessName)
	require.Len(t, resp.GeneratedPosts, 1)
	assert.Equal(t, "stored", resp.GeneratedPosts[0].Caption)
	assert.Equal(t, "ig", resp.GeneratedPosts[0].PlatformVariations.Instagram)
	assert.Equal(t, []string{"a"}, resp.GeneratedPosts[0].Hashtags)
	// 建议类字段不落库，重建时回退到兜底值
	assert.Equal(t, model.CreativeStaticPost, resp.GeneratedPosts[0].SuggestedCreativeType)
}

func TestGetProject_NotFound(t *testing.T) {
	svc := newTestService(&fakeProjectRepo{}, &fakePostRepo{}, newFakeResultCache(), &fakeLLM{})

	_, err := svc.GetProject(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestGetProject_CacheErrorFallsThroughToDatabase(t *testing.T) {
	projectRepo := &fakeProjectRepo{projects: []model.Project{{ID: 5, BusinessName: "Resilient Co"}}}
	cache := newFakeResultCache()
	cache.getErr = errors.New("redis down")
	svc := newTestService(projectRepo, &fakePostRepo{}, cache, &fakeLLM{})

	resp, err := svc.GetProject(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Resilient Co", resp.BusinessName)
}
