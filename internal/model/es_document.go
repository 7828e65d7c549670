// Package model 定义了与数据库表对应的 Go 结构体。
package model

// PostDocument 代表索引到 Elasticsearch 中的帖子文档结构。
type PostDocument struct {
	DocID        string   `json:"doc_id"` // 唯一标识，projectID + postNumber
	ProjectID    uint     `json:"project_id"`
	BusinessName string   `json:"business_name"`
	PostNumber   int      `json:"post_number"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	CTA          string   `json:"cta"`
}

// PostSearchResult 定义了返回给前端的搜索结果结构。
type PostSearchResult struct {
	ProjectID    uint     `json:"projectId"`
	BusinessName string   `json:"businessName"`
	PostNumber   int      `json:"postNumber"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	CTA          string   `json:"cta"`
	Score        float64  `json:"score"`
}
