package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/service"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/llm"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.Init("error", "json", "")
	m.Run()
}

// stubContentService 允许每个用例注入固定的返回值。
type stubContentService struct {
	generateResp *model.ContentResponse
	generateErr  error
	projects     []model.Project
	listErr      error
	projectResp  *model.ContentResponse
	projectErr   error
}

func (s *stubContentService) Generate(ctx context.Context, req model.ContentRequest) (*model.ContentResponse, error) {
	return s.generateResp, s.generateErr
}

func (s *stubContentService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects, s.listErr
}

func (s *stubContentService) GetProject(ctx context.Context, projectID uint) (*model.ContentResponse, error) {
	return s.projectResp, s.projectErr
}

func newContentRouter(svc service.ContentService) *gin.Engine {
	r := gin.New()
	h := NewContentHandler(svc)
	r.POST("/api/v1/content", h.Generate)
	r.GET("/api/v1/content/projects", h.ListProjects)
	r.GET("/api/v1/content/projects/:id", h.GetProject)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody(extra string) string {
	body := `{
		"business_name": "Acme Co",
		"industry": "Retail",
		"target_audience": "Young adults",
		"location": "NYC",
		"business_goal": "Leads",
		"tone": "Friendly"`
	if extra != "" {
		body += ",\n" + extra
	}
	return body + "\n}"
}

func TestGenerate_OK(t *testing.T) {
	svc := &stubContentService{generateResp: &model.ContentResponse{
		ProjectID:    12,
		BusinessName: "Acme Co",
		GeneratedPosts: []model.PostResponse{
			{PostNumber: 1, Caption: "hello", Hashtags: []string{"a"}, SuggestedCreativeType: model.CreativeReel},
		},
	}}
	r := newContentRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/content", validBody(""))
	require.Equal(t, http.StatusOK, w.Code)

	// 成功时直接返回裸响应体，而不是通用信封
	var resp model.ContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(12), resp.ProjectID)
	assert.Equal(t, "Acme Co", resp.BusinessName)
	require.Len(t, resp.GeneratedPosts, 1)
	assert.Equal(t, model.CreativeReel, resp.GeneratedPosts[0].SuggestedCreativeType)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing business_name", `{"industry":"Retail","target_audience":"x","location":"y","business_goal":"Leads","tone":"Friendly"}`, "BusinessName"},
		{"bad goal", strings.Replace(validBody(""), `"Leads"`, `"WorldPeace"`, 1), "BusinessGoal"},
		{"bad tone", strings.Replace(validBody(""), `"Friendly"`, `"Sassy"`, 1), "Tone"},
		{"zero posts", validBody(`"number_of_posts": 0`), "NumberOfPosts"},
		{"too many posts", validBody(`"number_of_posts": 31`), "NumberOfPosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newContentRouter(&stubContentService{})
			w := doJSON(r, http.MethodPost, "/api/v1/content", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Message string            `json:"message"`
				Fields  map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "invalid request payload", resp.Message)
			assert.Contains(t, resp.Fields, tt.field)
		})
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing api key", llm.ErrMissingAPIKey, http.StatusInternalServerError, "service configuration error"},
		{"model failure", fmt.Errorf("%w: upstream timeout", service.ErrGenerationFailed), http.StatusBadGateway, "AI generation failed"},
		{"malformed output", fmt.Errorf("%w: no json found", service.ErrMalformedOutput), http.StatusBadGateway, "AI generation failed"},
		{"save failure", fmt.Errorf("%w: db gone", service.ErrSaveResults), http.StatusInternalServerError, "failed to save generated posts"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newContentRouter(&stubContentService{generateErr: tt.err})
			w := doJSON(r, http.MethodPost, "/api/v1/content", validBody(""))
			require.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp["message"])
		})
	}
}

func TestGenerate_UpstreamDetailExposedOn502(t *testing.T) {
	err := fmt.Errorf("%w: upstream timeout", service.ErrGenerationFailed)
	r := newContentRouter(&stubContentService{generateErr: err})

	w := doJSON(r, http.MethodPost, "/api/v1/content", validBody(""))
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "upstream timeout")
}

func TestListProjects_OK(t *testing.T) {
	svc := &stubContentService{projects: []model.Project{
		{ID: 2, BusinessName: "Newer Co"},
		{ID: 1, BusinessName: "Older Co"},
	}}
	r := newContentRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/v1/content/projects", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    []model.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "success", resp.Message)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Newer Co", resp.Data[0].BusinessName)
}

func TestGetProject_OK(t *testing.T) {
	svc := &stubContentService{projectResp: &model.ContentResponse{
		ProjectID:    4,
		BusinessName: "Acme Co",
	}}
	r := newContentRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/v1/content/projects/4", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.ContentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(4), resp.Data.ProjectID)
}

func TestGetProject_NotFound(t *testing.T) {
	r := newContentRouter(&stubContentService{projectErr: service.ErrProjectNotFound})

	w := doJSON(r, http.MethodGet, "/api/v1/content/projects/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "project not found")
}

func TestGetProject_InvalidID(t *testing.T) {
	r := newContentRouter(&stubContentService{})

	w := doJSON(r, http.MethodGet, "/api/v1/content/projects/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid project id")
}
