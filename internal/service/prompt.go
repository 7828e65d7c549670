// Package service 包含了应用的业务逻辑层。
package service

import (
	"fmt"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
)

// BuildPrompt 把校验后的请求渲染成生成模型的指令文本。
// 纯函数；输出契约是一个不带任何包裹文本的 JSON 数组。
func BuildPrompt(req model.ContentRequest) string {
	return fmt.Sprintf(`Generate %d social media posts for the following business.

Business Name: %s
Industry: %s
Target Audience: %s
Location: %s
Business Goal: %s
Tone: %s

For each post, provide exactly the structure below. Return ONLY a valid JSON array of objects, no other text or markdown.
Do NOT generate actual images — only the structured AI image prompt text is required.

JSON structure for each post (one object per post):
{
  "post_topic": "short topic title",
  "caption": "platform-neutral caption text",
  "platform_variations": {
    "instagram": "Instagram-optimized version (concise, visual)",
    "linkedin": "LinkedIn-optimized version (professional)",
    "facebook": "Facebook-optimized version (conversational)"
  },
  "hashtags": ["hashtag1", "hashtag2", "hashtag3"],
  "cta": "call-to-action phrase or sentence",
  "ai_image_prompt": "Detailed prompt for DALL·E / Midjourney / Stable Diffusion to generate the post image (scene, style, mood, composition; no actual image)",
  "suggested_creative_type": "Carousel" | "Reel" | "Static Post",
  "text_overlay_suggestion": "Short phrase or line to overlay on the image",
  "color_theme_suggestion": "Suggested color palette or theme (e.g. warm earth tones, bold primary colors)"
}

Return only the JSON array, e.g. [ { ... }, { ... } ]`,
		req.PostCount(),
		req.BusinessName,
		req.Industry,
		req.TargetAudience,
		req.Location,
		req.BusinessGoal,
		req.Tone,
	)
}
