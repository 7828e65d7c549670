package service

import (
	"testing"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_InterpolatesRequestFields(t *testing.T) {
	n := 3
	req := model.ContentRequest{
		BusinessName:   "Acme Co",
		Industry:       "Retail",
		TargetAudience: "Young adults",
		Location:       "NYC",
		BusinessGoal:   model.GoalSales,
		Tone:           model.ToneBold,
		NumberOfPosts:  &n,
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "Generate 3 social media posts")
	assert.Contains(t, prompt, "Business Name: Acme Co")
	assert.Contains(t, prompt, "Industry: Retail")
	assert.Contains(t, prompt, "Target Audience: Young adults")
	assert.Contains(t, prompt, "Location: NYC")
	assert.Contains(t, prompt, "Business Goal: Sales")
	assert.Contains(t, prompt, "Tone: Bold")
}

func TestBuildPrompt_StatesOutputContract(t *testing.T) {
	req := model.ContentRequest{
		BusinessName:   "Acme Co",
		Industry:       "Retail",
		TargetAudience: "Young adults",
		Location:       "NYC",
		BusinessGoal:   model.GoalLeads,
		Tone:           model.ToneFriendly,
	}

	prompt := BuildPrompt(req)

	// 未指定数量时使用默认值
	assert.Contains(t, prompt, "Generate 5 social media posts")
	// JSON 数组契约与禁止生成真实图片的约束
	assert.Contains(t, prompt, "Return ONLY a valid JSON array")
	assert.Contains(t, prompt, "Do NOT generate actual images")
	// 每篇帖子的结构字段
	for _, field := range []string{
		"post_topic", "caption", "platform_variations", "instagram", "linkedin", "facebook",
		"hashtags", "cta", "ai_image_prompt", "suggested_creative_type",
		"text_overlay_suggestion", "color_theme_suggestion",
	} {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, `"Carousel" | "Reel" | "Static Post"`)
}
