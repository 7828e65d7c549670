// Package model 包含了应用的数据模型定义。
package model

// BusinessGoal 是请求中业务目标的枚举值。
type BusinessGoal string

const (
	GoalLeads      BusinessGoal = "Leads"
	GoalBranding   BusinessGoal = "Branding"
	GoalSales      BusinessGoal = "Sales"
	GoalEngagement BusinessGoal = "Engagement"
)

// Tone 是请求中文案语气的枚举值。
type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneFriendly     Tone = "Friendly"
	ToneBold         Tone = "Bold"
	ToneEducational  Tone = "Educational"
)

// CreativeType 是帖子建议的视觉形式分类。
type CreativeType string

const (
	CreativeCarousel   CreativeType = "Carousel"
	CreativeReel       CreativeType = "Reel"
	CreativeStaticPost CreativeType = "Static Post"
)

// DefaultPostCount 是未指定 number_of_posts 时的默认生成数量。
const DefaultPostCount = 5

// ContentRequest 定义了生成接口的请求体结构。
// number_of_posts 使用指针区分“未填写”（默认 5）与“显式传 0”（校验拒绝）。
type ContentRequest struct {
	BusinessName   string       `json:"business_name" binding:"required"`
	Industry       string       `json:"industry" binding:"required"`
	TargetAudience string       `json:"target_audience" binding:"required"`
	Location       string       `json:"location" binding:"required"`
	BusinessGoal   BusinessGoal `json:"business_goal" binding:"required,oneof=Leads Branding Sales Engagement"`
	Tone           Tone         `json:"tone" binding:"required,oneof=Professional Friendly Bold Educational"`
	NumberOfPosts  *int         `json:"number_of_posts" binding:"omitempty,min=1,max=30"`
}

// PostCount 返回请求的生成数量，未填写时取默认值。
func (r ContentRequest) PostCount() int {
	if r.NumberOfPosts == nil {
		return DefaultPostCount
	}
	return *r.NumberOfPosts
}

// PlatformVariations 是同一条文案针对各平台的改写版本。
type PlatformVariations struct {
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
}

// PostResponse 是归一化之后的单篇帖子草稿。
type PostResponse struct {
	PostNumber            int                `json:"post_number"`
	PostTopic             string             `json:"post_topic"`
	Caption               string             `json:"caption"`
	PlatformVariations    PlatformVariations `json:"platform_variations"`
	Hashtags              []string           `json:"hashtags"`
	CTA                   string             `json:"cta"`
	AIImagePrompt         string             `json:"ai_image_prompt"`
	SuggestedCreativeType CreativeType       `json:"suggested_creative_type"`
	TextOverlaySuggestion string             `json:"text_overlay_suggestion"`
	ColorThemeSuggestion  string             `json:"color_theme_suggestion"`
}

// ContentResponse 是生成接口的响应体结构。
type ContentResponse struct {
	ProjectID      uint           `json:"project_id"`
	BusinessName   string         `json:"business_name"`
	GeneratedPosts []PostResponse `json:"generated_posts"`
}
